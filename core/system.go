package core

// System immutable node level identifiers
type System struct {
	ProgramID   string
	DscMint     string
	ExplorerURL string
	Version     string
}

// ExplorerTx explorer link for a signature
func (s *System) ExplorerTx(signature string) string {
	if s.ExplorerURL == "" {
		return signature
	}
	return s.ExplorerURL + "/tx/" + signature
}
