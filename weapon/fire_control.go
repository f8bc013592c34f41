package weapon

// FireControl gates shots by rate. NextEligible is in the same clock as the
// now values passed in.
type FireControl struct {
	FireRate     float64
	NextEligible float64
}

func (f *FireControl) Ready(now float64) bool {
	return now >= f.NextEligible
}

// Consume records a shot at now. A non-positive rate never blocks.
func (f *FireControl) Consume(now float64) {
	if f.FireRate <= 0 {
		f.NextEligible = now
		return
	}
	f.NextEligible = now + 1/f.FireRate
}
