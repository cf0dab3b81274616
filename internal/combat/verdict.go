package combat

// Verdict classifies how a validation chain ended.
type Verdict int

const (
	// VerdictAccept means the action was applied.
	VerdictAccept Verdict = iota
	// VerdictReject is a soft failure: logged, no state change, retryable
	// once the missing precondition holds.
	VerdictReject
	// VerdictOffense is an integrity failure that increments the player's
	// kick-offense counter.
	VerdictOffense
	// VerdictKick demands immediate removal: either the offense counter
	// crossed its maximum or the claim was physically impossible.
	VerdictKick
)

func (v Verdict) String() string {
	switch v {
	case VerdictAccept:
		return "accept"
	case VerdictReject:
		return "soft-reject"
	case VerdictOffense:
		return "offense"
	case VerdictKick:
		return "kick"
	default:
		return "unknown"
	}
}

// Outcome is the result of one validated action. Validation failures never
// propagate as errors; they are absorbed into an Outcome the hub translates
// into a no-op, a log line, or a removal.
type Outcome struct {
	Verdict Verdict
	Reason  string
}

// Accepted reports whether the action was applied.
func (o Outcome) Accepted() bool { return o.Verdict == VerdictAccept }

// ShouldKick reports whether the player must be removed.
func (o Outcome) ShouldKick() bool { return o.Verdict == VerdictKick }

func accept() Outcome { return Outcome{Verdict: VerdictAccept} }

func reject(reason string) Outcome {
	return Outcome{Verdict: VerdictReject, Reason: reason}
}
