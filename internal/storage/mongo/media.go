package mongo

import (
	"context"
	"errors"
	"fmt"
	"io"
	store "listingBoard/internal/storage"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const bucketName = `media`

// MediaStore keeps uploaded listing media in a GridFS bucket.
type MediaStore struct {
	Client *mongo.Client
	bucket *gridfs.Bucket
}

func New(ctx context.Context, uri, dbName string) (*MediaStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}

	bucket, err := gridfs.NewBucket(client.Database(dbName), options.GridFSBucket().SetName(bucketName))
	if err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}

	return &MediaStore{Client: client, bucket: bucket}, nil
}

func (m *MediaStore) Upload(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	opts := options.GridFSUpload().SetMetadata(bson.D{{Key: `contentType`, Value: contentType}})

	stream, err := m.bucket.OpenUploadStream(name, opts)
	if err != nil {
		return ``, err
	}

	if err := stream.SetWriteDeadline(deadline(ctx)); err != nil {
		stream.Abort()
		return ``, err
	}

	if _, err := io.Copy(stream, r); err != nil {
		stream.Abort()
		return ``, err
	}

	if err := stream.Close(); err != nil {
		return ``, err
	}

	return stream.FileID.(primitive.ObjectID).Hex(), nil
}

func (m *MediaStore) Download(ctx context.Context, id string) ([]byte, string, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ``, fmt.Errorf("media %s: %w", id, store.ErrNotFound)
	}

	stream, err := m.bucket.OpenDownloadStream(objID)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, ``, fmt.Errorf("media %s: %w", id, store.ErrNotFound)
		}
		return nil, ``, err
	}
	defer stream.Close()

	if err := stream.SetReadDeadline(deadline(ctx)); err != nil {
		return nil, ``, err
	}

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, ``, err
	}

	var contentType string
	if file := stream.GetFile(); file != nil && file.Metadata != nil {
		contentType, _ = file.Metadata.Lookup(`contentType`).StringValueOK()
	}

	return data, contentType, nil
}

// deadline turns the context deadline into the zero-means-none form GridFS streams take.
func deadline(ctx context.Context) time.Time {
	if d, ok := ctx.Deadline(); ok {
		return d
	}
	return time.Time{}
}

func (m *MediaStore) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
