package model

// EngineProfile identifies the execution platform a form schema
// targets. Extracted from the schema on import; lint evaluation is a
// no-op until a profile with a version is known.
type EngineProfile struct {
	Platform string `json:"platform"`
	Version  string `json:"version"`
}

// Complete reports whether the profile carries enough information to
// drive lint evaluation.
func (p EngineProfile) Complete() bool {
	return p.Platform != "" && p.Version != ""
}
