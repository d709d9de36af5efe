package discovery

// Progress receives updates while sources are processed
type Progress interface {
	Update(processed, found int)
	Finish()
}
