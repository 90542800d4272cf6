package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/grexie/planet/pkg/dataset"
	"github.com/grexie/planet/pkg/db"
	"github.com/grexie/planet/pkg/images"
	"github.com/grexie/planet/pkg/labels"
	"github.com/grexie/planet/pkg/model"
	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/joho/godotenv"
	"github.com/syndtr/goleveldb/leveldb"
	"gorgonia.org/tensor"
)

func loadEnv(filenames ...string) {
	for _, filename := range filenames {
		if s, err := os.Stat(filename); err == nil && !s.IsDir() {
			godotenv.Load(filename)
		}
	}
}

func loadRecords(ctx context.Context, params model.Params) ([]labels.Record, error) {
	if params.MongoCollection != "" {
		database, err := db.ConnectMongo(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		defer database.Client().Disconnect(ctx)
		return dataset.LoadRecords(ctx, database.Collection(params.MongoCollection), params.IDColumn, params.TagsColumn)
	}

	f, err := os.Open(params.LabelsCSV)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return dataset.ReadRecordsCSV(f, params.IDColumn, params.TagsColumn)
}

func newProgressWriter() progress.Writer {
	pw := progress.NewWriter()
	pw.SetMessageLength(40)
	pw.SetNumTrackersExpected(1)
	pw.SetStyle(progress.StyleDefault)
	pw.SetTrackerLength(15)
	pw.SetTrackerPosition(progress.PositionRight)
	pw.SetUpdateFrequency(time.Millisecond * 100)
	pw.Style().Colors = progress.StyleColorsExample
	pw.Style().Options.PercentFormat = "%2.0f%%"
	return pw
}

func readValidationImages(ctx context.Context, params model.Params, ids []string) (tensor.Tensor, error) {
	if count, err := images.FileCount(filepath.Join(params.ImageDir, "*.jpg")); err != nil {
		return nil, err
	} else if count < len(ids) {
		log.Printf("image directory %s has %d images, expected at least %d", params.ImageDir, count, len(ids))
	}

	var codec images.Codec = images.NewJPEGCodec(params.ImageSize)
	if params.CodecURL != "" {
		codec = images.NewHTTPCodec(params.CodecURL)
	}
	if params.CachePath != "" {
		cache, err := leveldb.OpenFile(params.CachePath, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", params.CachePath, err)
		}
		defer cache.Close()
		codec = images.NewCachedCodec(cache, codec)
	}

	pw := newProgressWriter()
	go pw.Render()
	defer func() {
		pw.Stop()
		for pw.IsRenderInProgress() {
			time.Sleep(100 * time.Millisecond)
		}
	}()

	return images.ReadImages(ctx, pw, codec, params.ImageDir, ids, params.BatchSize)
}

func evaluate(params model.Params, vocabulary *labels.Vocabulary, truth labels.Table) error {
	f, err := os.Open(params.PredictionsCSV)
	if err != nil {
		return err
	}
	defer f.Close()

	ids, scores, err := dataset.ReadScoresCSV(f, params.IDColumn, vocabulary)
	if err != nil {
		return err
	}
	if len(ids) == 0 || vocabulary.Len() == 0 {
		return fmt.Errorf("no predictions in %s", params.PredictionsCSV)
	}

	flat := make([]float64, 0, len(ids)*vocabulary.Len())
	for _, row := range scores {
		flat = append(flat, row...)
	}
	thresholded, err := model.ThresholdTensor(tensor.New(
		tensor.WithShape(len(ids), vocabulary.Len()),
		tensor.WithBacking(flat),
	), params.Threshold)
	if err != nil {
		return err
	}
	predictions, err := model.Rows(thresholded)
	if err != nil {
		return err
	}

	knownIDs, knownScores, knownPredictions := []string{}, [][]float64{}, [][]bool{}
	for i, id := range ids {
		if _, ok := truth[id]; ok {
			knownIDs = append(knownIDs, id)
			knownScores = append(knownScores, scores[i])
			knownPredictions = append(knownPredictions, predictions[i])
		}
	}
	if len(knownIDs) > 0 {
		metrics, err := model.CalculateMetrics(vocabulary, truth, knownIDs, knownPredictions, params.Beta)
		if err != nil {
			return err
		}
		metrics.Write(os.Stdout)

		if params.TuneThresholds {
			thresholds, tuned, err := model.TuneThresholds(vocabulary, truth, knownIDs, knownScores, params.Beta, model.DefaultCandidates())
			if err != nil {
				return err
			}
			model.WriteThresholds(os.Stdout, vocabulary, thresholds)
			tuned.Write(os.Stdout)

			if predictions, err = model.ThresholdPerLabel(scores, thresholds); err != nil {
				return err
			}
		}
	} else {
		log.Printf("no labelled images among %d predictions, skipping metrics", len(ids))
	}

	if params.SubmissionCSV != "" {
		out, err := os.Create(params.SubmissionCSV)
		if err != nil {
			return err
		}
		defer out.Close()
		if err := dataset.WriteSubmissionCSV(out, params.IDColumn, params.TagsColumn, vocabulary, ids, predictions); err != nil {
			return err
		}
		log.Printf("wrote %d predictions to %s", len(ids), params.SubmissionCSV)
	}

	return nil
}

func main() {
	if _, ok := os.LookupEnv("ENV"); !ok {
		env := "development"
		os.Setenv("ENV", env)
	}
	loadEnv(".env."+os.Getenv("ENV")+".local", ".env."+os.Getenv("ENV"), ".env.local", ".env")

	ctx := context.Background()
	params := model.NewParamsFromDefaults()
	params.Write(os.Stdout, "Planet Config")

	policy, err := labels.ParsePolicy(params.UnknownPolicy)
	if err != nil {
		log.Fatalf("error parsing env.PLANET_UNKNOWN_POLICY: %v", err)
	}

	records, err := loadRecords(ctx, params)
	if err != nil {
		log.Fatalf("error loading label table: %v", err)
	}
	log.Printf("loaded %d label records", len(records))

	// one vocabulary for both splits so their vectors line up
	vocabulary := labels.BuildVocabulary(records)
	encoder := labels.NewEncoder(vocabulary, policy)

	train, validation := dataset.Split(records, params.ValidationSplit)
	trainTable, err := encoder.Encode(train)
	if err != nil {
		log.Fatalf("error encoding training labels: %v", err)
	}
	validationTable, err := encoder.Encode(validation)
	if err != nil {
		log.Fatalf("error encoding validation labels: %v", err)
	}

	labels.Summarize(vocabulary, trainTable).Write(os.Stdout, "Training Labels")
	if len(validationTable) > 0 {
		labels.Summarize(vocabulary, validationTable).Write(os.Stdout, "Validation Labels")
	}

	if params.ImageDir != "" && len(validation) > 0 && vocabulary.Len() > 0 {
		ids := dataset.Identifiers(validation)
		x, err := readValidationImages(ctx, params, ids)
		if err != nil {
			log.Fatalf("error reading validation images: %v", err)
		}
		y, err := validationTable.Tensor(ids)
		if err != nil {
			log.Fatalf("error building validation labels: %v", err)
		}
		log.Printf("validation inputs %v, labels %v", x.Shape(), y.Shape())
	}

	if params.PredictionsCSV != "" {
		truth, err := encoder.Encode(records)
		if err != nil {
			log.Fatalf("error encoding labels: %v", err)
		}
		if err := evaluate(params, vocabulary, truth); err != nil {
			log.Fatalf("error evaluating predictions: %v", err)
		}
	}
}
