package sampledata

import (
	"testing"

	"github.com/okian/gaffer/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestGenerateSquad(t *testing.T) {
	convey.Convey("Given a squad generator", t, func() {
		convey.Convey("When generating a full squad", func() {
			squad := GenerateSquad(15)

			convey.Convey("Then it should produce the requested size", func() {
				convey.So(squad.Players, convey.ShouldHaveLength, 15)
			})

			convey.Convey("And every player should be well formed", func() {
				seen := make(map[string]bool)
				for _, p := range squad.Players {
					convey.So(p.ID, convey.ShouldNotBeEmpty)
					convey.So(seen[p.ID], convey.ShouldBeFalse)
					seen[p.ID] = true
					convey.So(p.Price, convey.ShouldBeGreaterThan, 0)
					convey.So(len(p.RecentPoints), convey.ShouldEqual, recentMatches)
					for _, pts := range p.RecentPoints {
						convey.So(pts, convey.ShouldBeGreaterThanOrEqualTo, 0)
					}
					convey.So(len(p.NextOpponents), convey.ShouldEqual, 3)
				}
			})

			convey.Convey("And the budget invariant should hold", func() {
				convey.So(squad.Validate(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When generating a small squad", func() {
			squad := GenerateSquad(3)

			convey.Convey("Then it should still produce valid players", func() {
				convey.So(squad.Players, convey.ShouldHaveLength, 3)
				convey.So(squad.Validate(), convey.ShouldBeNil)
			})
		})
	})
}

func TestGenerateMarket(t *testing.T) {
	convey.Convey("Given a market generator", t, func() {
		market := GenerateMarket(20)

		convey.Convey("Then it should produce the requested size with unique ids", func() {
			convey.So(market.Players, convey.ShouldHaveLength, 20)
			seen := make(map[string]bool)
			for _, p := range market.Players {
				convey.So(seen[p.ID], convey.ShouldBeFalse)
				seen[p.ID] = true
			}
		})
	})
}

func TestGenerateRivals(t *testing.T) {
	convey.Convey("Given a rivals generator", t, func() {
		pool := GenerateMarket(10).Players
		poolIDs := make(map[string]bool, len(pool))
		for _, p := range pool {
			poolIDs[p.ID] = true
		}

		rivals := GenerateRivals(4, pool)

		convey.Convey("Then every rival should be well formed", func() {
			convey.So(rivals, convey.ShouldHaveLength, 4)
			for _, r := range rivals {
				convey.So(r.ManagerID, convey.ShouldNotBeEmpty)
				for _, id := range r.PlayerIDs {
					convey.So(poolIDs[id], convey.ShouldBeTrue)
				}
			}
		})
	})
}

func TestSquadPositions(t *testing.T) {
	convey.Convey("Given the formation template", t, func() {
		positions := squadPositions(15)

		convey.Convey("Then it should follow a 2-5-5-3 split", func() {
			count := make(map[model.Position]int)
			for _, pos := range positions {
				count[pos]++
			}
			convey.So(count[model.Goalkeeper], convey.ShouldEqual, 2)
			convey.So(count[model.Defender], convey.ShouldEqual, 5)
			convey.So(count[model.Midfielder], convey.ShouldEqual, 5)
			convey.So(count[model.Forward], convey.ShouldEqual, 3)
		})
	})
}
