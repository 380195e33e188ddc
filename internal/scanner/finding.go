package scanner

// Status is the outcome of one checklist entry.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	StatusWarn Status = "warn"
)

// Finding is one evaluated security check. Fix is only set on failures.
type Finding struct {
	Status Status `json:"status" yaml:"status"`
	Text   string `json:"text" yaml:"text"`
	Fix    string `json:"fix,omitempty" yaml:"fix,omitempty"`
}

func passFinding(text string) Finding {
	return Finding{Status: StatusPass, Text: text}
}

func failFinding(text, fix string) Finding {
	return Finding{Status: StatusFail, Text: text, Fix: fix}
}

func warnFinding(text string) Finding {
	return Finding{Status: StatusWarn, Text: text}
}
