package loader_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/gaffer/internal/adapters/loader"
	"github.com/okian/gaffer/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadSquad(t *testing.T) {
	convey.Convey("Given a squad file loader", t, func() {
		l := loader.New()
		ctx := context.Background()

		convey.Convey("When loading a valid squad", func() {
			path := writeFile(t, "squad.json", `{
				"players": [
					{"id": "s1", "name": "Vini", "position": "FWD", "price": 12.0},
					{"id": "s2", "name": "Rodri", "position": "MID", "price": 9.5}
				],
				"bankroll": 3.5,
				"total_value": 25.0
			}`)

			squad, err := l.Squad(ctx, path)

			convey.Convey("Then it should parse players and budget", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(squad.Players, convey.ShouldHaveLength, 2)
				convey.So(squad.Players[0].Position, convey.ShouldEqual, model.Forward)
				convey.So(squad.Bankroll, convey.ShouldEqual, 3.5)
			})
		})

		convey.Convey("When the squad violates the budget invariant", func() {
			path := writeFile(t, "squad.json", `{
				"players": [{"id": "s1", "position": "FWD", "price": 12.0}],
				"bankroll": 1.0,
				"total_value": 5.0
			}`)

			_, err := l.Squad(ctx, path)

			convey.Convey("Then it should reject the file", func() {
				convey.So(err, convey.ShouldWrap, model.ErrBudgetInvariant)
			})
		})

		convey.Convey("When a player id repeats", func() {
			path := writeFile(t, "squad.json", `{
				"players": [
					{"id": "s1", "position": "FWD", "price": 2.0},
					{"id": "s1", "position": "MID", "price": 2.0}
				],
				"total_value": 10.0
			}`)

			_, err := l.Squad(ctx, path)

			convey.Convey("Then it should reject the file", func() {
				convey.So(err, convey.ShouldWrap, loader.ErrDuplicatePlayerID)
			})
		})

		convey.Convey("When the file does not exist", func() {
			_, err := l.Squad(ctx, "/nonexistent/squad.json")

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the file is not JSON", func() {
			path := writeFile(t, "squad.json", `not json at all`)

			_, err := l.Squad(ctx, path)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestLoadMarket(t *testing.T) {
	convey.Convey("Given a market file loader", t, func() {
		l := loader.New()
		ctx := context.Background()

		convey.Convey("When loading a valid market", func() {
			path := writeFile(t, "market.json", `{
				"players": [{"id": "m1", "name": "Lewa", "position": "FWD", "price": 10.0}]
			}`)

			market, err := l.Market(ctx, path)

			convey.Convey("Then it should parse the listing", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(market.Players, convey.ShouldHaveLength, 1)
				convey.So(market.Players[0].ID, convey.ShouldEqual, "m1")
			})
		})

		convey.Convey("When a player is missing an id", func() {
			path := writeFile(t, "market.json", `{
				"players": [{"name": "Nameless", "position": "DEF", "price": 4.0}]
			}`)

			_, err := l.Market(ctx, path)

			convey.Convey("Then it should reject the file", func() {
				convey.So(err, convey.ShouldWrap, loader.ErrMissingPlayerID)
			})
		})
	})
}

func TestLoadRivals(t *testing.T) {
	convey.Convey("Given a rivals file loader", t, func() {
		l := loader.New()
		ctx := context.Background()

		convey.Convey("When loading a valid rivals file", func() {
			path := writeFile(t, "rivals.json", `[
				{"manager_id": "r1", "player_ids": ["s1", "m2"]},
				{"manager_id": "r2", "player_ids": []}
			]`)

			rivals, err := l.Rivals(ctx, path)

			convey.Convey("Then it should parse every rival squad", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(rivals, convey.ShouldHaveLength, 2)
				convey.So(rivals[0].Owns("m2"), convey.ShouldBeTrue)
				convey.So(rivals[1].Owns("m2"), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When the path is empty", func() {
			rivals, err := l.Rivals(ctx, "")

			convey.Convey("Then it should return no rivals without error", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(rivals, convey.ShouldBeNil)
			})
		})

		convey.Convey("When a rival has no manager id", func() {
			path := writeFile(t, "rivals.json", `[{"player_ids": ["s1"]}]`)

			_, err := l.Rivals(ctx, path)

			convey.Convey("Then it should reject the file", func() {
				convey.So(err, convey.ShouldWrap, loader.ErrMissingManagerID)
			})
		})
	})
}
