package sampledata

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/gaffer/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

func TestRunWritesLoadableFiles(t *testing.T) {
	convey.Convey("Given a generation run without submit", t, func() {
		dir := t.TempDir()
		config := &Config{
			OutputDir:  dir,
			SquadSize:  15,
			MarketSize: 10,
			RivalCount: 3,
		}

		err := Run(context.Background(), config)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then all three files should exist", func() {
			for _, name := range []string{squadFile, marketFile, rivalsFile} {
				_, statErr := os.Stat(filepath.Join(dir, name))
				convey.So(statErr, convey.ShouldBeNil)
			}
		})

		convey.Convey("And the loader should accept them unchanged", func() {
			squad, market, rivals, loadErr := loadGenerated(context.Background(), dir)
			convey.So(loadErr, convey.ShouldBeNil)
			convey.So(squad.Players, convey.ShouldHaveLength, 15)
			convey.So(squad.Validate(), convey.ShouldBeNil)
			convey.So(market.Players, convey.ShouldHaveLength, 10)
			convey.So(rivals, convey.ShouldHaveLength, 3)
		})
	})
}

func TestLoadGeneratedMissingFiles(t *testing.T) {
	convey.Convey("Given an empty output directory", t, func() {
		dir := t.TempDir()

		_, _, _, err := loadGenerated(context.Background(), dir)

		convey.Convey("Then the loader error surfaces", func() {
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}
