package scoring

// RevisedScorer is the v2 scorer. A composite only earns Above or At when
// fluency and comp/vocab each clear that band's floor; otherwise it is
// held at Slightly Below.
type RevisedScorer struct{}

func (RevisedScorer) Version() Version { return V2 }

func (RevisedScorer) Score(m Metrics, t Tunables) *ScoringResult {
	// F is rounded before it enters the composite; v1 keeps it unrounded,
	// so the versions can differ by one point on identical inputs.
	f := float64(round(m.CappedFluencyNormalized * (m.AccuracyPercent / 100)))
	c := m.CompVocabScore
	composite := round((f + c) / 2)

	label, floors := RevisedLabel(composite, f, c, t.Bands)

	res := baseResult(V2, m)
	res.FluencyScore = f
	res.CompositeScore = composite
	res.FloorsMet = &floors

	if hf := t.AccuracyHardFloor; hf != nil && m.AccuracyPercent < *hf {
		if lowered := label.Downgrade(); lowered != label {
			label = lowered
			res.AccuracyHardFloorApplied = true
		}
	}
	res.ReadingLevelLabel = label
	return res
}

// RevisedLabel selects the v2 band for a composite and its components,
// before any accuracy downgrade. Rules are evaluated in order:
//
//  1. composite >= above, F and C meet the Above floors -> Above
//  2. at <= composite < above, F and C meet the At floors -> At
//  3. slightly-below <= composite < at -> Slightly Below
//  4. composite >= at with a floor missed -> Slightly Below
//  5. otherwise -> Below
func RevisedLabel(composite int, f, c float64, b BandThresholds) (Label, FloorsMet) {
	aboveFloors := FloorsMet{Fluency: f >= b.AboveFluency, Comprehension: c >= b.AboveComprehension}
	atFloors := FloorsMet{Fluency: f >= b.AtFluency, Comprehension: c >= b.AtComprehension}

	floors := atFloors
	if composite >= b.AboveComposite {
		floors = aboveFloors
	}

	switch {
	case composite >= b.AboveComposite && aboveFloors.Fluency && aboveFloors.Comprehension:
		return LabelAbove, floors
	case composite >= b.AtComposite && composite < b.AboveComposite && atFloors.Fluency && atFloors.Comprehension:
		return LabelAt, floors
	case composite >= b.SlightlyBelowComposite && composite < b.AtComposite:
		return LabelSlightlyBelow, floors
	case composite >= b.AtComposite:
		return LabelSlightlyBelow, floors
	default:
		return LabelBelow, floors
	}
}
