package components

import "fmt"

// Personality selects how a creature gates pursuit of its nearest target.
type Personality uint8

const (
	Egoista      Personality = iota // Always pursues
	Conservadora                    // Pursues when resources look sufficient
	Neutral                         // Pursues on a coin flip
)

// NumPersonalities is the number of personality states.
const NumPersonalities = 3

var personalityNames = [NumPersonalities]string{"egoista", "conservadora", "neutral"}

func (p Personality) String() string {
	if int(p) < len(personalityNames) {
		return personalityNames[p]
	}
	return fmt.Sprintf("personality(%d)", p)
}

// ParsePersonality maps a name back to its Personality.
func ParsePersonality(s string) (Personality, error) {
	for i, name := range personalityNames {
		if name == s {
			return Personality(i), nil
		}
	}
	return 0, fmt.Errorf("unknown personality %q", s)
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (p Personality) MarshalCSV() (string, error) {
	return p.String(), nil
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (p *Personality) UnmarshalCSV(s string) error {
	v, err := ParsePersonality(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}
