package mosaic

// Usage holds the token counters reported by the server.
//
// Counters are cumulative to date: a later report supersedes an earlier one
// rather than adding to it.
type Usage struct {
	InputTokens  int
	OutputTokens int
}
