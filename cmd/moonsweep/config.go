package main

import (
	"log"
	"time"

	"github.com/lorandignat/moonphase"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/spf13/viper"
)

const dateFormat = "2006-01-02 15:04:05"

type sweepConf struct {
	reference    time.Time
	location     *time.Location
	from, to     float64
	step         float64
	mode         moonphase.ViewMode
	transitionTo *moonphase.ViewMode
	fps          float64
	export       moonphase.ExportConfig
}

func readSweep() sweepConf {
	loc := time.Local
	if name := viper.GetString("sweep.location"); name != "" {
		var err error
		if loc, err = time.LoadLocation(name); err != nil {
			log.Fatalf("could not understand `sweep.location`: %s", err)
		}
	}
	conf := sweepConf{
		reference: confReadJDEorTime("sweep.reference", loc),
		location:  loc,
		from:      viper.GetFloat64("sweep.from"),
		to:        viper.GetFloat64("sweep.to"),
		step:      viper.GetFloat64("sweep.step"),
		fps:       viper.GetFloat64("transition.fps"),
	}
	if conf.step == 0 {
		conf.step = 1
	}
	if conf.fps <= 0 {
		conf.fps = 30
	}
	mode, err := moonphase.ParseViewMode(viper.GetString("sweep.mode"))
	if err != nil && viper.IsSet("sweep.mode") {
		log.Fatalf("could not understand `sweep.mode`: %s", err)
	}
	conf.mode = mode
	if viper.IsSet("transition.to") {
		to, err := moonphase.ParseViewMode(viper.GetString("transition.to"))
		if err != nil {
			log.Fatalf("could not understand `transition.to`: %s", err)
		}
		conf.transitionTo = &to
	}
	conf.export = moonphase.ExportConfig{
		Filename:  viper.GetString("export.filename"),
		OutputDir: viper.GetString("export.path"),
		AsCSV:     viper.GetBool("export.csv"),
		AsJSON:    viper.GetBool("export.json"),
		Timestamp: viper.GetBool("export.timestamp"),
	}
	if conf.export.OutputDir == "" {
		conf.export.OutputDir = "."
	}
	return conf
}

// confReadJDEorTime reads either a Julian date or a date time. An unset key is now.
func confReadJDEorTime(key string, loc *time.Location) (dt time.Time) {
	if !viper.IsSet(key) {
		return time.Now().In(loc)
	}
	jde := viper.GetFloat64(key)
	if jde == 0 {
		var perr error
		dt, perr = time.ParseInLocation(dateFormat, viper.GetString(key), loc)
		if perr != nil {
			log.Fatalf("could not understand `%s`: %s", key, perr)
		}
	} else {
		dt = julian.JDToTime(jde).In(loc)
	}
	return
}
