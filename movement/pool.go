package movement

import "sync"

var scratchPool = sync.Pool{
	New: func() any {
		return &Scratch{}
	},
}

func newScratch() *Scratch {
	return scratchPool.Get().(*Scratch)
}

func putScratch(s *Scratch) {
	s.reset()
	scratchPool.Put(s)
}
