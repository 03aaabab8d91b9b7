package fitsmeta

import (
	"fmt"
	"sync"
)

// WarningCode identifies the kind of non-fatal finding.
type WarningCode string

// WarnUnrecognizedExtension marks an HDU whose XTENSION cannot be described automatically.
const WarnUnrecognizedExtension WarningCode = "unrecognized_extension_type"

// Warning is a non-fatal finding about one HDU.
type Warning struct {
	Code    WarningCode `json:"code"`
	HDU     int         `json:"hdu"`
	Name    string      `json:"name"`
	Message string      `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("HDU %d (%s): %s", w.HDU, w.Name, w.Message)
}

// Diagnostics collects warnings. The zero value is ready to use and a nil
// *Diagnostics discards everything.
type Diagnostics struct {
	mu       sync.Mutex
	warnings []Warning
}

// Warn records a warning.
func (d *Diagnostics) Warn(w Warning) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.warnings = append(d.warnings, w)
}

// Warnings returns a copy of the recorded warnings in emission order.
func (d *Diagnostics) Warnings() []Warning {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Warning, len(d.warnings))
	copy(out, d.warnings)
	return out
}

// Len returns the number of recorded warnings.
func (d *Diagnostics) Len() int {
	if d == nil {
		return 0
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.warnings)
}
