package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/talentforge/matchengine/matching"
	"github.com/talentforge/matchengine/matching/matchinginfra"
	"github.com/talentforge/matchengine/matching/matchingtrain"
	"github.com/talentforge/matchengine/pkg/logx"
)

func main() {
	_ = godotenv.Load()
	logx.SetLevel(logx.LevelInfo)
	logx.Info("Starting Match Engine training run...")

	ctx := context.Background()

	pipeline := matchingtrain.NewPipeline(datasetLoader(), artifactStore(ctx))

	start := time.Now()
	metrics, err := pipeline.Run(ctx)
	if err != nil {
		logx.Fatalf("Training run failed: %v", err)
	}

	logx.Infof("Training completed in %s", time.Since(start).Round(time.Millisecond))
	logx.Infof("Records: %d, accuracy: %.4f, trained at: %s",
		metrics.Records, metrics.Accuracy, metrics.LastTrainingDate)
}

// datasetLoader reads from a CSV file when DATASET_PATH is set, otherwise
// from the configured Postgres table.
func datasetLoader() matching.DatasetLoader {
	if path := os.Getenv("DATASET_PATH"); path != "" {
		logx.Infof("loading dataset from CSV %s", path)
		return matchinginfra.NewCSVLoader(path)
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		os.Getenv("DB_HOST"), os.Getenv("DB_PORT"), os.Getenv("DB_USER"),
		os.Getenv("DB_PASS"), os.Getenv("DB_NAME"))
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		logx.Fatalf("Failed to connect to database: %v", err)
	}

	table := os.Getenv("DATASET_TABLE")
	if table == "" {
		table = "candidate_dataset"
	}
	loader, err := matchinginfra.NewPostgresLoader(db, table)
	if err != nil {
		logx.Fatalf("Invalid dataset table: %v", err)
	}
	logx.Infof("loading dataset from Postgres table %s", table)
	return loader
}

func artifactStore(ctx context.Context) matching.ArtifactStore {
	bucket := os.Getenv("ARTIFACTS_S3_BUCKET")
	if bucket == "" {
		dir := os.Getenv("ARTIFACTS_DIR")
		if dir == "" {
			dir = "./artifacts"
		}
		return matchinginfra.NewLocalStore(dir)
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		logx.Fatalf("Failed to load AWS config: %v", err)
	}
	return matchinginfra.NewS3Store(s3.NewFromConfig(cfg), bucket, os.Getenv("ARTIFACTS_S3_PREFIX"))
}
