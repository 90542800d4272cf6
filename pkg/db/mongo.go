package db

import (
	"context"
	"net/url"
	"os"
	"reflect"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultMongoURL = "mongodb://localhost:27017/planet"

// DatabaseName returns the database named in the path of a mongo URL, or "planet".
func DatabaseName(mongoUrl string) (string, error) {
	uri, err := url.Parse(mongoUrl)
	if err != nil {
		return "", err
	}
	dbName := strings.Trim(uri.Path, "/")
	if dbName == "" {
		dbName = "planet"
	}
	return dbName, nil
}

func ConnectMongo(ctx context.Context) (*mongo.Database, error) {
	registry := bson.NewRegistry()
	registry.RegisterTypeMapEntry(0x03, reflect.TypeOf(bson.M{}))

	mongoUrl := os.Getenv("MONGO_URL")
	if mongoUrl == "" {
		mongoUrl = defaultMongoURL
	}

	dbName, err := DatabaseName(mongoUrl)
	if err != nil {
		return nil, err
	}

	if client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoUrl).SetRegistry(registry)); err != nil {
		return nil, err
	} else {
		return client.Database(dbName), nil
	}
}
