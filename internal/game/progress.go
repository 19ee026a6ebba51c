package game

// Progress accumulates round reports into a game total.
//
// Every termination path of a mode goes through Report; a second report
// for the same round, or any report after the terminal one, is refused so
// a round can never be counted twice.
type Progress struct {
	total    int
	reports  []RoundReport
	finished bool
}

// Report adds r to the running total. It returns false if r was refused.
func (p *Progress) Report(r RoundReport) bool {
	if p.finished {
		return false
	}
	if n := len(p.reports); n > 0 && p.reports[n-1].Round >= r.Round {
		return false
	}
	p.total += r.Score
	p.reports = append(p.reports, r)
	if r.Terminal {
		p.finished = true
	}
	return true
}

// Total is the accumulated score.
func (p *Progress) Total() int { return p.total }

// Finished reports whether a terminal report was accepted.
func (p *Progress) Finished() bool { return p.finished }

// Reports returns a copy of the accepted reports.
func (p *Progress) Reports() []RoundReport {
	return append([]RoundReport(nil), p.reports...)
}

// LastRound is the round of the latest accepted report, or 0.
func (p *Progress) LastRound() int {
	if n := len(p.reports); n > 0 {
		return p.reports[n-1].Round
	}
	return 0
}

// Close ends a game abandoned between rounds. The last round was already
// reported, so the terminal report is a zero-score entry for the round that
// never started. It returns false if the game was already finished.
func (p *Progress) Close() bool {
	return p.Report(RoundReport{Round: p.LastRound() + 1, Terminal: true})
}

// Reset clears everything for a new game.
func (p *Progress) Reset() {
	p.total = 0
	p.reports = nil
	p.finished = false
}
