package swipe

// settleMsg fires when a deferred advance is due.
type settleMsg struct {
	Seq uint64
}

// bannerDoneMsg hides the SUPER LIKE banner it was scheduled for.
type bannerDoneMsg struct {
	Seq uint64
}

// effectsExpiredMsg asks for a redraw after a burst has faded.
type effectsExpiredMsg struct{}

// journalErrMsg reports a journal write that failed. It is logged only.
type journalErrMsg struct {
	Err error
}
