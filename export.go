package moonphase

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// ExportConfig configures the export of a sweep.
type ExportConfig struct {
	Filename  string
	OutputDir string
	AsCSV     bool
	AsJSON    bool // catalog summarizing the sweep
	Timestamp bool // stamp file names with the creation time
}

// IsUseless returns whether this export config won't export anything.
func (c ExportConfig) IsUseless() bool {
	return !c.AsCSV && !c.AsJSON
}

// Catalog summarizes a sweep.
type Catalog struct {
	Version   string         `json:"version"`
	Name      string         `json:"name"`
	StartTime string         `json:"startTime"`
	EndTime   string         `json:"endTime"`
	Mode      string         `json:"mode"`
	Steps     int            `json:"steps"`
	Phases    []CatalogPhase `json:"phases"`
}

// CatalogPhase is a run of consecutive snapshots in the same lunar phase.
type CatalogPhase struct {
	Phase        string  `json:"phase"`
	StartTime    string  `json:"startTime"`
	EndTime      string  `json:"endTime"`
	Illumination float64 `json:"peakIllumination"`
}

func (c *Catalog) String() string {
	return c.Name + "(" + c.Version + ")"
}

func (c *Catalog) add(s Snapshot) {
	dt := s.DT.UTC().Format(time.RFC3339)
	if c.Steps == 0 {
		c.StartTime = dt
		c.Mode = s.Mode.String()
	}
	c.EndTime = dt
	c.Steps++
	phase := s.Moon.Phase.String()
	if n := len(c.Phases); n > 0 && c.Phases[n-1].Phase == phase {
		c.Phases[n-1].EndTime = dt
		if s.Moon.Illumination > c.Phases[n-1].Illumination {
			c.Phases[n-1].Illumination = s.Moon.Illumination
		}
		return
	}
	c.Phases = append(c.Phases, CatalogPhase{phase, dt, dt, s.Moon.Illumination})
}

// CSVHeader is the header row of the exported CSV.
var CSVHeader = []string{"time", "jd", "offset", "earthAroundSun", "moonAroundEarth", "earthAxial", "sunAxial", "age", "illumination", "phase", "distance", "camX", "camY", "camZ", "sunOpacity", "background"}

// CSVRecord returns the CSV row of a snapshot. Angles are in degrees.
func CSVRecord(s Snapshot) []string {
	f := func(v float64, prec int) string { return strconv.FormatFloat(v, 'f', prec, 64) }
	cam := s.Camera.Position()
	return []string{
		s.DT.UTC().Format("2006-01-02 15:04:05"),
		f(julian.TimeToJD(s.DT.UTC()), 5),
		f(s.Offset, 5),
		f(Rad2deg(wrapAngle(s.Rotations.SolarSystem)), 3),
		f(Rad2deg(wrapAngle(s.Rotations.EarthSystem)), 3),
		f(Rad2deg(wrapAngle(s.Rotations.Earth)), 3),
		f(Rad2deg(wrapAngle(s.Rotations.Sun)), 3),
		f(s.Moon.Age, 4),
		f(s.Moon.Illumination, 2),
		s.Moon.Phase.String(),
		f(s.Moon.Distance, 1),
		f(cam[0], 4), f(cam[1], 4), f(cam[2], 4),
		f(s.Visibility.SunOpacity, 1),
		strconv.FormatBool(s.Visibility.Background),
	}
}

func exportPath(conf ExportConfig, prefix, ext string) string {
	name := fmt.Sprintf("%s-%s", prefix, conf.Filename)
	if conf.Timestamp {
		t := time.Now()
		name = fmt.Sprintf("%s-%d-%02d-%02dT%02d.%02d.%02d", name, t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
	}
	return filepath.Join(conf.OutputDir, name+"."+ext)
}

// WriteSnapshots writes the CSV of all snapshots from the channel and returns the catalog of the sweep.
func WriteSnapshots(w io.Writer, snapshots <-chan Snapshot) (*Catalog, error) {
	cat := &Catalog{Version: "1.0"}
	var cw *csv.Writer
	var werr error
	if w != nil {
		if _, werr = fmt.Fprintf(w, "# Creation date (UTC): %s\n# Angles in degrees, distance in km.\n", time.Now().UTC()); werr == nil {
			cw = csv.NewWriter(w)
			werr = cw.Write(CSVHeader)
		}
	}
	for s := range snapshots {
		// Keep draining so that the producer is never blocked.
		if cw != nil && werr == nil {
			werr = cw.Write(CSVRecord(s))
		}
		cat.add(s)
	}
	if cw != nil {
		cw.Flush()
		if werr == nil {
			werr = cw.Error()
		}
	}
	return cat, werr
}

// StreamSnapshots consumes the snapshots from the channel and writes the files of the export config.
// It returns once the channel is closed.
func StreamSnapshots(conf ExportConfig, snapshots <-chan Snapshot) error {
	if conf.IsUseless() {
		for range snapshots {
		}
		return nil
	}
	if conf.Filename == "" {
		for range snapshots {
		}
		return errors.New("no filename to export to")
	}
	var w io.Writer
	if conf.AsCSV {
		f, err := os.Create(exportPath(conf, "sweep", "csv"))
		if err != nil {
			for range snapshots {
			}
			return fmt.Errorf("could not create CSV: %w", err)
		}
		defer f.Close()
		w = f
	}
	cat, err := WriteSnapshots(w, snapshots)
	if err != nil {
		return fmt.Errorf("could not write CSV: %w", err)
	}
	if !conf.AsJSON {
		return nil
	}
	cat.Name = conf.Filename
	fc, err := os.Create(exportPath(conf, "catalog", "json"))
	if err != nil {
		return fmt.Errorf("could not create catalog: %w", err)
	}
	defer fc.Close()
	enc := json.NewEncoder(fc)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cat); err != nil {
		return fmt.Errorf("could not write catalog: %w", err)
	}
	return nil
}
