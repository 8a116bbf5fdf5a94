package baton

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tracker counts values handed out and released so leaks and double
// releases show up as a mismatch.
type tracker struct {
	created  int
	released map[int]int
}

func (tr *tracker) newChain() Handle[int] {
	tr.created++
	return NewWith(tr.created, Options[int]{OnRelease: func(v int) { tr.released[v]++ }})
}

func TestRandomOperations(t *testing.T) {
	t.Parallel()

	for seed := uint64(1); seed <= 20; seed++ {
		rnd := rand.New(rand.NewPCG(seed, seed*31))
		tr := &tracker{released: map[int]int{}}

		live := []Handle[int]{tr.newChain()}
		var dead []Handle[int]

		for step := 0; step < 500; step++ {
			if len(live) == 0 {
				live = append(live, tr.newChain())
			}
			current := tr.created
			i := rnd.IntN(len(live))
			h := live[i]

			switch rnd.IntN(3) {
			case 0:
				next, ok := h.Transfer()
				if i == len(live)-1 {
					require.True(t, ok, "seed %d step %d: tail %s must transfer", seed, step, h)
					live = append(live, next)
				} else {
					require.False(t, ok, "seed %d step %d: %s must be empty", seed, step, h)
				}
			case 1:
				require.NoError(t, h.Discard())
				dead = append(dead, h)
				live = append(live[:i], live[i+1:]...)
				if len(live) == 0 {
					assert.Equal(t, 1, tr.released[current], "seed %d: value %d", seed, current)
				}
			default:
				v, ok := h.Peek()
				assert.Equal(t, i == len(live)-1, ok)
				if ok {
					assert.Equal(t, current, v)
				}
			}

			holders := 0
			for _, l := range live {
				if l.Holding() {
					holders++
				}
			}
			if len(live) > 0 {
				assert.Equal(t, 1, holders, "seed %d step %d", seed, step)
				assert.Equal(t, len(live), live[0].Len())
				assert.Zero(t, tr.released[current])
			}
		}

		for _, h := range dead {
			assert.ErrorIs(t, h.Discard(), ErrStaleHandle)
			_, ok := h.Peek()
			assert.False(t, ok)
		}

		for len(live) > 0 {
			i := rnd.IntN(len(live))
			require.NoError(t, live[i].Discard())
			live = append(live[:i], live[i+1:]...)
		}

		for v := 1; v <= tr.created; v++ {
			assert.Equal(t, 1, tr.released[v], "seed %d: value %d released", seed, v)
		}
	}
}
