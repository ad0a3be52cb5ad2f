package common

import (
	"math/rand/v2"
	"sync"
	"time"
)

// RNG is a seedable random source shared by the sampler and the CLI.
// It satisfies rand.Source, so it can be plugged into distuv's Src field.
type RNG struct {
	rnd *rand.Rand
	mu  sync.Mutex
}

func NewRNG(seed uint64) *RNG {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &RNG{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), mu: sync.Mutex{}}
}

/* потокобезопасные обёртки */

func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	v := r.rnd.Uint64()
	r.mu.Unlock()
	return v
}

func (r *RNG) Float64() float64 {
	r.mu.Lock()
	v := r.rnd.Float64()
	r.mu.Unlock()
	return v
}
