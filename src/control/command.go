package control

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/jinjor/tone-synth/src/audio"
)

var (
	// ErrUnknownCommand ...
	ErrUnknownCommand = errors.New("unknown command")
	// ErrInvalidValue is returned for unparsable or non-finite values.
	ErrInvalidValue = errors.New("invalid value")
	// ErrQuit is returned by the terminal surface when the user asks to leave.
	ErrQuit = errors.New("quit")
)

// ParseCommand splits a command line into URL-unescaped tokens.
func ParseCommand(line string) ([]string, error) {
	items := strings.Fields(line)
	for i, item := range items {
		escaped, err := url.QueryUnescape(item)
		if err != nil {
			return nil, err
		}
		items[i] = escaped
	}
	return items, nil
}

// ----- Surface ----- //

// Surface turns textual commands into parameter store calls. It is safe
// for concurrent use; every connection and the terminal share one Surface.
type Surface struct {
	store *audio.Store

	mu   sync.Mutex
	last []byte
	seq  uint64
}

// NewSurface ...
func NewSurface(store *audio.Store) *Surface {
	return &Surface{store: store}
}

func expectArgs(command []string, n int) error {
	if len(command)-1 != n {
		return fmt.Errorf("%w: %s takes %d argument(s), got %d", ErrInvalidValue, command[0], n, len(command)-1)
	}
	return nil
}

func formatValue(p audio.Param, v float64) string {
	return p.String() + " " + strconv.FormatFloat(v, 'f', -1, 64)
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "1":
		return true, nil
	case "off", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("%w: %q is not on/off", ErrInvalidValue, s)
}

// Exec runs one command and returns the reply line.
//
//	preset <id>          apply a catalog preset
//	set <param> <value>  set one parameter
//	get <param>          read one parameter
//	label                current preset name
//	aux [on|off]         read or set the aux display mode
//	presets              list the catalog
//	status               JSON status
func (s *Surface) Exec(command []string) (string, error) {
	if len(command) == 0 {
		return "", fmt.Errorf("%w: empty", ErrUnknownCommand)
	}
	switch command[0] {
	case "preset":
		if err := expectArgs(command, 1); err != nil {
			return "", err
		}
		p, err := audio.PresetByID(command[1])
		if err != nil {
			return "", err
		}
		s.store.ApplyPreset(p)
		return "preset " + s.store.Label(), nil
	case "set":
		if err := expectArgs(command, 2); err != nil {
			return "", err
		}
		p, err := audio.ParamFromString(command[1])
		if err != nil {
			return "", err
		}
		value, err := strconv.ParseFloat(command[2], 64)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return "", fmt.Errorf("%w: %s must be finite", ErrInvalidValue, p)
		}
		s.store.Set(p, value)
		return formatValue(p, s.store.Get(p)), nil
	case "get":
		if err := expectArgs(command, 1); err != nil {
			return "", err
		}
		p, err := audio.ParamFromString(command[1])
		if err != nil {
			return "", err
		}
		return formatValue(p, s.store.Get(p)), nil
	case "label":
		return "label " + s.store.Label(), nil
	case "aux":
		if len(command) > 1 {
			if err := expectArgs(command, 1); err != nil {
				return "", err
			}
			on, err := parseBool(command[1])
			if err != nil {
				return "", err
			}
			s.store.SetAux(on)
		}
		if s.store.Aux() {
			return "aux on", nil
		}
		return "aux off", nil
	case "presets":
		lines := make([]string, 0, 2)
		for _, p := range audio.Presets() {
			lines = append(lines, p.ID+" "+p.Name)
		}
		return strings.Join(lines, "\n"), nil
	case "status":
		data, err := s.StatusJSON()
		if err != nil {
			return "", err
		}
		return "status " + string(data), nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownCommand, command[0])
}
