package components

import (
	"math"
	"testing"

	"github.com/pthm-cable/habitat/stochastic"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name string
		in   Position
		want Position
	}{
		{"inside", Position{3, 4}, Position{3, 4}},
		{"negative", Position{-5, -1}, Position{0, 0}},
		{"overflow", Position{20, 25}, Position{19, 19}},
		{"mixed", Position{-2, 30}, Position{0, 19}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.in, 20)
			if got != tt.want {
				t.Errorf("Clamp(%v, 20) = %v, want %v", tt.in, got, tt.want)
			}
			if !InBounds(got, 20) {
				t.Errorf("Clamp result %v out of bounds", got)
			}
		})
	}
}

func TestDistance(t *testing.T) {
	if d := Distance(Position{0, 0}, Position{3, 4}); math.Abs(d-5) > 1e-9 {
		t.Errorf("Distance = %v, want 5", d)
	}
	if d := Distance(Position{2, 2}, Position{2, 2}); d != 0 {
		t.Errorf("Distance same cell = %v, want 0", d)
	}
}

func TestIDAllocatorMonotonic(t *testing.T) {
	var ids IDAllocator
	prev := ids.Last()
	for i := 0; i < 100; i++ {
		id := ids.Next()
		if id <= prev {
			t.Fatalf("id %d not greater than %d", id, prev)
		}
		prev = id
	}
	if ids.Last() != 100 {
		t.Errorf("Last() = %d, want 100", ids.Last())
	}
}

func TestDieOnce(t *testing.T) {
	c := NewCreature(1, Position{}, Traits{Size: 15}, 2)
	if !c.Die(7) {
		t.Fatal("first Die should transition")
	}
	if c.Die(9) {
		t.Error("second Die should be a no-op")
	}
	if c.DeathTime != 7 || c.TimeAlive != 5 {
		t.Errorf("DeathTime=%v TimeAlive=%v, want 7 and 5", c.DeathTime, c.TimeAlive)
	}
	if c.Alive() || !c.Dead() {
		t.Error("creature should be dead")
	}
}

func TestEatAndReproduceEligibility(t *testing.T) {
	c := NewCreature(1, Position{}, Traits{}, 0)
	for i := 0; i < 3; i++ {
		c.Eat(float64(i + 1))
	}
	if c.FoodEaten != 3 || c.LastEatTime != 3 {
		t.Errorf("FoodEaten=%d LastEatTime=%v, want 3 and 3", c.FoodEaten, c.LastEatTime)
	}
	if !c.CanReproduce(3) {
		t.Error("should be able to reproduce at threshold")
	}
	c.Die(4)
	if c.CanReproduce(3) {
		t.Error("dead creature must not reproduce")
	}
}

func TestDefaultSpeed(t *testing.T) {
	if got := DefaultSpeed(10, 40); got != 4 {
		t.Errorf("DefaultSpeed(10, 40) = %v, want 4", got)
	}
	if got := DefaultSpeed(35, 40); math.Abs(got-40.0/35) > 1e-12 {
		t.Errorf("DefaultSpeed(35, 40) = %v", got)
	}
}

func TestPersonalityRoundTrip(t *testing.T) {
	for p := Personality(0); p < NumPersonalities; p++ {
		s, err := p.MarshalCSV()
		if err != nil {
			t.Fatal(err)
		}
		var back Personality
		if err := back.UnmarshalCSV(s); err != nil {
			t.Fatalf("UnmarshalCSV(%q): %v", s, err)
		}
		if back != p {
			t.Errorf("round trip %v -> %q -> %v", p, s, back)
		}
	}
	if _, err := ParsePersonality("valiente"); err == nil {
		t.Error("ParsePersonality should reject unknown names")
	}
}

func TestColorName(t *testing.T) {
	tests := []struct {
		c    Color
		want string
	}{
		{Color{255, 255, 255}, "white"},
		{Color{254, 216, 2}, "gold"},
		{Color{70, 130, 181}, "steelblue"},
	}
	for _, tt := range tests {
		if got := tt.c.Name(); got != tt.want {
			t.Errorf("%v.Name() = %q, want %q", tt.c, got, tt.want)
		}
	}
}

func TestRandomColorRange(t *testing.T) {
	v := stochastic.New(5)
	for i := 0; i < 1000; i++ {
		c := RandomColor(v)
		if c.R < 50 || c.G < 50 || c.B < 50 {
			t.Fatalf("RandomColor() = %v, channel below 50", c)
		}
	}
}

func TestParseHex(t *testing.T) {
	c := Color{R: 12, G: 200, B: 255}
	got, err := ParseHex(c.Hex())
	if err != nil || got != c {
		t.Errorf("ParseHex(%q) = %v, %v", c.Hex(), got, err)
	}
	for _, bad := range []string{"", "#12345", "123456x", "#zzzzzz"} {
		if _, err := ParseHex(bad); err == nil {
			t.Errorf("ParseHex(%q) succeeded", bad)
		}
	}
}
