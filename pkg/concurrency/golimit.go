package concurrency

const (
	// DefaultMax default max in-flight goroutines
	DefaultMax = 64
)

// DefaultGoLimit shared limiter for batch fan-out
var DefaultGoLimit = NewGoLimit(DefaultMax)

// GoLimit bounded goroutine limiter
type GoLimit struct {
	ch chan struct{}
}

// NewGoLimit new limiter with the given capacity
func NewGoLimit(max int) *GoLimit {
	return &GoLimit{
		ch: make(chan struct{}, max),
	}
}

// Add acquire a slot, blocks when the limit is reached
func (g *GoLimit) Add() {
	g.ch <- struct{}{}
}

// Done release a slot
func (g *GoLimit) Done() {
	<-g.ch
}
