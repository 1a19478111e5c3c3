package feature_test

import (
	"context"
	"testing"

	"github.com/okian/gaffer/internal/domain/feature"
	"github.com/okian/gaffer/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFormScore(t *testing.T) {
	Convey("Given a feature engine with alpha 0.3", t, func() {
		eng := feature.New(feature.WithAlpha(0.3))

		Convey("When deriving form from [8,12,6,15,4]", func() {
			b, err := eng.Derive(context.Background(), model.Player{
				ID:           "p1",
				RecentPoints: []float64{8, 12, 6, 15, 4},
			})

			Convey("Then the EMA seeds at 8 and lands near 8.39", func() {
				So(err, ShouldBeNil)
				// 8 -> 9.2 -> 8.24 -> 10.268 -> 8.3876
				So(b.FormScore, ShouldAlmostEqual, 8.3876, 0.01)
			})
		})

		Convey("When deriving form from a single game", func() {
			b, err := eng.Derive(context.Background(), model.Player{
				ID:           "p2",
				RecentPoints: []float64{7},
			})

			Convey("Then form equals that value exactly", func() {
				So(err, ShouldBeNil)
				So(b.FormScore, ShouldEqual, 7)
			})

			Convey("And consistency defaults to neutral", func() {
				So(b.Consistency, ShouldEqual, 0.5)
			})
		})

		Convey("When deriving form from an empty history", func() {
			b, err := eng.Derive(context.Background(), model.Player{ID: "p3"})

			Convey("Then form is zero and the low-data marker is set", func() {
				So(err, ShouldBeNil)
				So(b.FormScore, ShouldEqual, 0)
				So(b.LowData, ShouldBeTrue)
			})
		})

		Convey("When the history contains negative points", func() {
			_, err := eng.Derive(context.Background(), model.Player{
				ID:           "p4",
				RecentPoints: []float64{5, -2},
			})

			Convey("Then it fails with an invalid-input error", func() {
				So(err, ShouldWrap, feature.ErrInvalidInput)
			})
		})
	})
}

func TestFixtureMultiplier(t *testing.T) {
	Convey("Given an engine with a strength table", t, func() {
		eng := feature.New(feature.WithRatings(map[string]int{
			"Pushover FC": 1,
			"Midtable":    3,
			"Champions":   5,
		}), feature.WithFixtureWindow(3))

		derive := func(opponents ...string) feature.Bundle {
			b, err := eng.Derive(context.Background(), model.Player{
				ID:            "p1",
				NextOpponents: opponents,
			})
			So(err, ShouldBeNil)
			return b
		}

		Convey("When fixtures get tougher the multiplier never increases", func() {
			easy := derive("Pushover FC")
			mid := derive("Midtable")
			hard := derive("Champions")
			So(easy.FixtureMultiplier, ShouldBeGreaterThan, mid.FixtureMultiplier)
			So(mid.FixtureMultiplier, ShouldBeGreaterThan, hard.FixtureMultiplier)
		})

		Convey("When the opponent is unknown it rates as neutral", func() {
			unknown := derive("Who Are They")
			neutral := derive("Midtable")
			So(unknown.FixtureMultiplier, ShouldEqual, neutral.FixtureMultiplier)
			So(unknown.FixtureMultiplier, ShouldAlmostEqual, 1.0, 1e-9)
		})

		Convey("When there are no upcoming fixtures the multiplier is neutral", func() {
			So(derive().FixtureMultiplier, ShouldEqual, 1.0)
		})

		Convey("When the run is extreme the multiplier stays within bounds", func() {
			hard := derive("Champions", "Champions", "Champions")
			easy := derive("Pushover FC", "Pushover FC", "Pushover FC")
			So(hard.FixtureMultiplier, ShouldBeGreaterThanOrEqualTo, 0.7)
			So(easy.FixtureMultiplier, ShouldBeLessThanOrEqualTo, 1.3)
		})

		Convey("When a fixture id is blank it fails fast", func() {
			_, err := eng.Derive(context.Background(), model.Player{
				ID:            "p1",
				NextOpponents: []string{"Midtable", ""},
			})
			So(err, ShouldWrap, feature.ErrInvalidInput)
		})

		Convey("And fixture risk mirrors the multiplier", func() {
			So(derive("Champions").FixtureRisk, ShouldBeGreaterThan, derive("Pushover FC").FixtureRisk)
		})
	})
}

func TestStarterProbability(t *testing.T) {
	Convey("Given a default engine", t, func() {
		eng := feature.New()

		derive := func(p model.Player) feature.Bundle {
			b, err := eng.Derive(context.Background(), p)
			So(err, ShouldBeNil)
			return b
		}

		Convey("An available ever-present is near certainty", func() {
			b := derive(model.Player{ID: "p1", Status: model.Available, MinutesPlayed: 900, GamesPlayed: 10})
			So(b.StarterProbability, ShouldEqual, 1.0)
		})

		Convey("Injured and suspended players are ruled out", func() {
			So(derive(model.Player{ID: "p2", Status: model.Injured}).StarterProbability, ShouldEqual, 0)
			So(derive(model.Player{ID: "p3", Status: model.Suspended}).StarterProbability, ShouldEqual, 0)
		})

		Convey("A doubtful player keeps a small non-zero floor", func() {
			b := derive(model.Player{ID: "p4", Status: model.Doubtful, MinutesPlayed: 900, GamesPlayed: 10})
			So(b.StarterProbability, ShouldBeGreaterThan, 0)
			So(b.StarterProbability, ShouldBeLessThan, 0.5)
		})

		Convey("Low minutes share drags the probability down", func() {
			full := derive(model.Player{ID: "p5", Status: model.Available, MinutesPlayed: 900, GamesPlayed: 10})
			bench := derive(model.Player{ID: "p6", Status: model.Available, MinutesPlayed: 90, GamesPlayed: 10})
			So(bench.StarterProbability, ShouldBeLessThan, full.StarterProbability)
		})
	})
}

func TestConsistency(t *testing.T) {
	Convey("Given a default engine", t, func() {
		eng := feature.New()

		derive := func(points ...float64) feature.Bundle {
			b, err := eng.Derive(context.Background(), model.Player{ID: "p1", RecentPoints: points})
			So(err, ShouldBeNil)
			return b
		}

		Convey("A flat sequence scores higher than a streaky one", func() {
			steady := derive(6, 6, 6, 6)
			streaky := derive(0, 12, 0, 12)
			So(steady.Consistency, ShouldBeGreaterThan, streaky.Consistency)
		})

		Convey("Perfectly flat scoring is perfectly consistent", func() {
			So(derive(5, 5, 5).Consistency, ShouldAlmostEqual, 1.0, 1e-9)
		})

		Convey("An all-zero sequence is maximally inconsistent", func() {
			So(derive(0, 0, 0).Consistency, ShouldEqual, 0)
		})
	})
}
