package search

// costEpsilon absorbs floating noise when comparing cumulative costs.
const costEpsilon = 1e-9

// ledger maps a state key to the cheapest cumulative cost seen so far.
type ledger map[string]float64

// improve records cost for key if the key is new or strictly cheaper.
func (l ledger) improve(key string, cost float64) bool {
	if best, ok := l[key]; ok && cost >= best-costEpsilon {
		return false
	}
	l[key] = cost
	return true
}

// stale reports whether a queued cost has been beaten since it was pushed.
func (l ledger) stale(key string, cost float64) bool {
	best, ok := l[key]
	return ok && cost > best+costEpsilon
}
