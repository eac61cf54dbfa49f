package blackjack

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDealerAgent(t *testing.T) {
	a := NewDealerAgent(time.Second)
	assert.Equal(t, time.Second, a.ThinkTime())

	tests := []struct {
		name   string
		view   TurnView
		action Action
	}{
		{
			name:   "stays when ahead",
			view:   TurnView{Score: 18, CanHit: true, Others: []SeatView{{Score: 17}}},
			action: Stay,
		},
		{
			name:   "stays on a tie",
			view:   TurnView{Score: 18, CanHit: true, Others: []SeatView{{Score: 18}}},
			action: Stay,
		},
		{
			name:   "hits when beaten",
			view:   TurnView{Score: 15, CanHit: true, Others: []SeatView{{Name: "Alice", Score: 19}}},
			action: Hit,
		},
		{
			name:   "ignores busted seats",
			view:   TurnView{Score: 12, CanHit: true, Others: []SeatView{{Score: 24}}},
			action: Stay,
		},
		{
			name:   "stays when it cannot hit",
			view:   TurnView{Score: 21, CanHit: false, Others: []SeatView{{Score: 20}}},
			action: Stay,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := a.Decide(tt.view)
			assert.Equal(t, tt.action, d.Action)
			assert.NotEmpty(t, d.Reasoning)
		})
	}
}

func TestThresholdAgent(t *testing.T) {
	a := NewThresholdAgent(17, 0)
	assert.Equal(t, Hit, a.Decide(TurnView{Score: 16, CanHit: true}).Action)
	assert.Equal(t, Stay, a.Decide(TurnView{Score: 17, CanHit: true}).Action)
	assert.Equal(t, Stay, a.Decide(TurnView{Score: 12, CanHit: false}).Action)
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "hit", Hit.String())
	assert.Equal(t, "stay", Stay.String())
}
