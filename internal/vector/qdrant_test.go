// ABOUTME: Tests for qdrant collection bootstrap
// ABOUTME: Fakes the collections client to exercise Ensure without a server
package vector

import (
	"context"
	"errors"
	"testing"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
)

// fakeCollections overrides the two RPCs Ensure uses; the embedded interface
// panics on anything else, which is what we want.
type fakeCollections struct {
	pb.CollectionsClient
	exists    bool
	existsErr error
	created   []*pb.CreateCollection
	createErr error
}

func (f *fakeCollections) CollectionExists(ctx context.Context, in *pb.CollectionExistsRequest, opts ...grpc.CallOption) (*pb.CollectionExistsResponse, error) {
	if f.existsErr != nil {
		return nil, f.existsErr
	}
	return &pb.CollectionExistsResponse{Result: &pb.CollectionExists{Exists: f.exists}}, nil
}

func (f *fakeCollections) Create(ctx context.Context, in *pb.CreateCollection, opts ...grpc.CallOption) (*pb.CollectionOperationResponse, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, in)
	return &pb.CollectionOperationResponse{Result: true}, nil
}

func TestEnsure_ExistingCollectionSkipsCreate(t *testing.T) {
	fake := &fakeCollections{exists: true}
	idx := &QdrantIndex{collections: fake, collection: "studies"}

	if err := idx.Ensure(context.Background(), 1536); err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if len(fake.created) != 0 {
		t.Errorf("Create called %d times for an existing collection", len(fake.created))
	}
}

func TestEnsure_CreatesMissingCollection(t *testing.T) {
	fake := &fakeCollections{exists: false}
	idx := &QdrantIndex{collections: fake, collection: "studies"}

	if err := idx.Ensure(context.Background(), 1536); err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if len(fake.created) != 1 {
		t.Fatalf("Create called %d times, want 1", len(fake.created))
	}
	req := fake.created[0]
	if req.CollectionName != "studies" {
		t.Errorf("collection = %q, want studies", req.CollectionName)
	}
	params := req.VectorsConfig.GetParams()
	if params.Size != 1536 {
		t.Errorf("vector size = %d, want 1536", params.Size)
	}
	if params.Distance != pb.Distance_Cosine {
		t.Errorf("distance = %v, want cosine", params.Distance)
	}
}

func TestEnsure_ExistsCheckFailurePropagates(t *testing.T) {
	cause := errors.New("connection refused")
	fake := &fakeCollections{existsErr: cause}
	idx := &QdrantIndex{collections: fake, collection: "studies"}

	err := idx.Ensure(context.Background(), 1536)
	if !errors.Is(err, cause) {
		t.Errorf("Ensure() error = %v, want wrapped %v", err, cause)
	}
	if len(fake.created) != 0 {
		t.Errorf("Create must not run when the existence check fails")
	}
}
