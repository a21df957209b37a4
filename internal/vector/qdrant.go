// ABOUTME: Qdrant-backed vector index over gRPC
// ABOUTME: Implements Index with cosine distance collections and payload-tagged points
package vector

import (
	"context"
	"fmt"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// QdrantIndex implements Index using Qdrant.
type QdrantIndex struct {
	conn        *grpc.ClientConn
	points      pb.PointsClient
	collections pb.CollectionsClient
	collection  string
}

// NewQdrant creates a Qdrant-backed index.
func NewQdrant(host string, port int, collection string) (*QdrantIndex, error) {
	addr := fmt.Sprintf("%s:%d", host, port)
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("qdrant connect: %w", err)
	}
	return &QdrantIndex{
		conn:        conn,
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
		collection:  collection,
	}, nil
}

// Ensure creates the collection with cosine distance if it does not exist.
func (q *QdrantIndex) Ensure(ctx context.Context, dimension int) error {
	exists, err := q.collections.CollectionExists(ctx, &pb.CollectionExistsRequest{
		CollectionName: q.collection,
	})
	if err != nil {
		return fmt.Errorf("qdrant check collection: %w", err)
	}
	if exists.GetResult().GetExists() {
		return nil
	}

	_, err = q.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: q.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(dimension),
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("qdrant ensure collection: %w", err)
	}
	return nil
}

func (q *QdrantIndex) Upsert(ctx context.Context, id string, vec []float64, payload map[string]string) error {
	pbPayload := make(map[string]*pb.Value, len(payload))
	for k, v := range payload {
		pbPayload[k] = &pb.Value{Kind: &pb.Value_StringValue{StringValue: v}}
	}

	data := make([]float32, len(vec))
	for i, v := range vec {
		data[i] = float32(v)
	}

	_, err := q.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: q.collection,
		Points: []*pb.PointStruct{
			{
				Id:      &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: id}},
				Vectors: &pb.Vectors{VectorsOptions: &pb.Vectors_Vector{Vector: &pb.Vector{Data: data}}},
				Payload: pbPayload,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert: %w", err)
	}
	return nil
}

func (q *QdrantIndex) Search(ctx context.Context, vec []float64, limit int) ([]Hit, error) {
	query := make([]float32, len(vec))
	for i, v := range vec {
		query[i] = float32(v)
	}

	resp, err := q.points.Search(ctx, &pb.SearchPoints{
		CollectionName: q.collection,
		Vector:         query,
		Limit:          uint64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant search: %w", err)
	}

	hits := make([]Hit, len(resp.Result))
	for i, pt := range resp.Result {
		hits[i] = Hit{
			ID:    pt.Id.GetUuid(),
			Score: float64(pt.Score),
		}
	}
	return hits, nil
}

func (q *QdrantIndex) Close() error {
	return q.conn.Close()
}

var _ Index = (*QdrantIndex)(nil)
