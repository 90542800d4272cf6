package model

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
)

type Params struct {
	LabelsCSV       string
	IDColumn        string
	TagsColumn      string
	MongoCollection string
	PredictionsCSV  string
	SubmissionCSV   string

	ImageDir  string
	ImageSize int
	BatchSize int
	CodecURL  string
	CachePath string

	Threshold       float64
	Beta            float64
	UnknownPolicy   string
	ValidationSplit float64
	TuneThresholds  bool
}

func (p *Params) Write(w io.Writer, title string) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(title)
	t.AppendRows([]table.Row{
		{"PLANET_LABELS_CSV", p.LabelsCSV},
		{"PLANET_ID_COLUMN", p.IDColumn},
		{"PLANET_TAGS_COLUMN", p.TagsColumn},
		{"PLANET_MONGO_COLLECTION", p.MongoCollection},
		{"PLANET_PREDICTIONS_CSV", p.PredictionsCSV},
		{"PLANET_SUBMISSION_CSV", p.SubmissionCSV},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"PLANET_IMAGE_DIR", p.ImageDir},
		{"PLANET_IMAGE_SIZE", fmt.Sprintf("%d", p.ImageSize)},
		{"PLANET_BATCH_SIZE", fmt.Sprintf("%d", p.BatchSize)},
		{"PLANET_CODEC_URL", p.CodecURL},
		{"PLANET_CACHE_PATH", p.CachePath},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"PLANET_THRESHOLD", fmt.Sprintf("%0.04f", p.Threshold)},
		{"PLANET_BETA", fmt.Sprintf("%0.02f", p.Beta)},
		{"PLANET_UNKNOWN_POLICY", p.UnknownPolicy},
		{"PLANET_VALIDATION_SPLIT", fmt.Sprintf("%0.02f", p.ValidationSplit)},
		{"PLANET_TUNE_THRESHOLDS", fmt.Sprintf("%t", p.TuneThresholds)},
	})
	t.Render()
}

func NewParamsFromDefaults() Params {
	return Params{
		LabelsCSV:       LabelsCSV(),
		IDColumn:        IDColumn(),
		TagsColumn:      TagsColumn(),
		MongoCollection: MongoCollection(),
		PredictionsCSV:  PredictionsCSV(),
		SubmissionCSV:   SubmissionCSV(),

		ImageDir:  ImageDir(),
		ImageSize: ImageSize(),
		BatchSize: BatchSize(),
		CodecURL:  CodecURL(),
		CachePath: CachePath(),

		Threshold:       DecisionThreshold(),
		Beta:            Beta(),
		UnknownPolicy:   UnknownPolicy(),
		ValidationSplit: ValidationSplit(),
		TuneThresholds:  TuneThresholdsFromEnv(),
	}
}

func envInt(name string, def func() int, dec func(v int) int) func() int {
	return func() int {
		value := def()
		if v, ok := os.LookupEnv(name); ok {
			if v, err := strconv.ParseInt(v, 10, 32); err != nil {
				log.Fatalf("failed to parse env.%s: %v", name, err)
			} else {
				value = int(v)
			}
		}
		return dec(value)
	}
}

func envFloat64(name string, def func() float64, dec func(v float64) float64) func() float64 {
	return func() float64 {
		value := def()
		if v, ok := os.LookupEnv(name); ok {
			if v, err := strconv.ParseFloat(v, 64); err != nil {
				log.Fatalf("failed to parse env.%s: %v", name, err)
			} else {
				value = v
			}
		}
		return dec(value)
	}
}

func envBool(name string, def func() bool) func() bool {
	return func() bool {
		value := def()
		if v, ok := os.LookupEnv(name); ok {
			if v, err := strconv.ParseBool(v); err != nil {
				log.Fatalf("failed to parse env.%s: %v", name, err)
			} else {
				value = v
			}
		}
		return value
	}
}

func envString(name string, def func() string) func() string {
	return func() string {
		value := def()
		if v, ok := os.LookupEnv(name); ok {
			value = v
		}
		return value
	}
}

var (
	LabelsCSV       = envString("PLANET_LABELS_CSV", func() string { return "train_v2.csv" })
	IDColumn        = envString("PLANET_ID_COLUMN", func() string { return "image_name" })
	TagsColumn      = envString("PLANET_TAGS_COLUMN", func() string { return "tags" })
	MongoCollection = envString("PLANET_MONGO_COLLECTION", func() string { return "" })
	PredictionsCSV  = envString("PLANET_PREDICTIONS_CSV", func() string { return "" })
	SubmissionCSV   = envString("PLANET_SUBMISSION_CSV", func() string { return "" })
)

var (
	ImageDir  = envString("PLANET_IMAGE_DIR", func() string { return "" })
	ImageSize = envInt("PLANET_IMAGE_SIZE", func() int { return 224 }, BoundImageSize)
	BatchSize = envInt("PLANET_BATCH_SIZE", func() int { return 64 }, BoundBatchSize)
	CodecURL  = envString("PLANET_CODEC_URL", func() string { return "" })
	CachePath = envString("PLANET_CACHE_PATH", func() string { return "" })
)

var (
	DecisionThreshold     = envFloat64("PLANET_THRESHOLD", func() float64 { return DefaultThreshold }, BoundThreshold)
	Beta                  = envFloat64("PLANET_BETA", func() float64 { return DefaultBeta }, BoundBeta)
	UnknownPolicy         = envString("PLANET_UNKNOWN_POLICY", func() string { return "ignore" })
	ValidationSplit       = envFloat64("PLANET_VALIDATION_SPLIT", func() float64 { return 0.2 }, BoundValidationSplit)
	TuneThresholdsFromEnv = envBool("PLANET_TUNE_THRESHOLDS", func() bool { return false })
)
