package logger

import (
	"strconv"
	"strings"
	"sync/atomic"
)

const defaultSampleEvery = 50

// sampler lets one in every n events through. n <= 1 lets everything through.
type sampler struct {
	every atomic.Uint64
	seen  atomic.Uint64
}

func newSampler(every uint64) *sampler {
	s := &sampler{}
	s.every.Store(every)
	return s
}

func (s *sampler) reset(every uint64) {
	s.every.Store(every)
	s.seen.Store(0)
}

func (s *sampler) allow() bool {
	every := s.every.Load()
	if every <= 1 {
		return true
	}
	return (s.seen.Add(1)-1)%every == 0
}

// parseSampleEvery reads logging.debug_sample. Accepted forms are "N" and
// "1/N" (one in N), plus "all", "off" or "0" to disable sampling. Anything
// unparsable falls back to the default rate.
func parseSampleEvery(spec string) uint64 {
	spec = strings.ToLower(strings.TrimSpace(spec))
	switch spec {
	case "":
		return defaultSampleEvery
	case "all", "off", "none", "0":
		return 1
	}
	if num, den, ok := strings.Cut(spec, "/"); ok {
		if strings.TrimSpace(num) != "1" {
			return defaultSampleEvery
		}
		spec = den
	}
	n, err := strconv.ParseUint(strings.TrimSpace(spec), 10, 32)
	if err != nil || n == 0 {
		return defaultSampleEvery
	}
	return n
}
