// file: internals/helpers/dbtime/tod.go
package dbtime

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Tod = time-of-day (HH:mm:ss), tanpa tanggal & zona.
type Tod struct{ time.Time }

// MustParse untuk konstanta default (panic kalau salah ketik).
func MustParse(s string) Tod {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Parse: "HH:mm" atau "HH:mm:ss"
func Parse(s string) (Tod, error) {
	var tt Tod
	return tt, tt.parse(s)
}

func (t *Tod) parse(s string) error {
	s = strings.TrimSpace(s)
	if len(s) == 5 {
		s += ":00"
	}
	tt, err := time.Parse("15:04:05", s)
	if err != nil {
		return fmt.Errorf("invalid time of day %q, expected HH:mm[:ss]", s)
	}
	t.Time = tt
	return nil
}

func (t Tod) String() string { return t.Format("15:04:05") }

func (t Tod) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Tod) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return t.parse(s)
}
