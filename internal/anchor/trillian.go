package anchor

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/trillian"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"sigsum.org/sigsum-go/pkg/ascii"
	"sigsum.org/sigsum-go/pkg/log"

	"github.com/ct-anchor/relay-go/internal/tx"
)

// TrillianClient anchors transactions as leaves of a Trillian log
// tree. QueueLeaf deduplicates on leaf identity, which gives the
// pipeline its idempotent apply: resubmitting a transaction after a
// crash comes back as AlreadyExists.
type TrillianClient struct {
	// treeID is the Merkle tree identifier Trillian uses.
	treeID int64

	// logClient is a Trillian gRPC client.
	logClient trillian.TrillianLogClient
}

// NewTrillianClient wraps an existing gRPC client, mainly for tests.
func NewTrillianClient(treeID int64, logClient trillian.TrillianLogClient) *TrillianClient {
	return &TrillianClient{treeID: treeID, logClient: logClient}
}

func DialTrillian(target string, timeout time.Duration, treeIDFile string) (*TrillianClient, error) {
	treeID, err := readTreeID(treeIDFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read tree id: %v", err)
	}

	conn, err := grpc.Dial(target,
		grpc.WithInsecure(), grpc.WithBlock(),
		grpc.WithTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("connection to trillian failed: %v", err)
	}
	tree, err := trillian.NewTrillianAdminClient(conn).GetTree(
		context.Background(), &trillian.GetTreeRequest{TreeId: int64(treeID)})
	if err != nil {
		return nil, err
	}
	if tree.TreeType != trillian.TreeType_LOG {
		return nil, fmt.Errorf("trillian tree of type %s, but must be of type LOG",
			tree.TreeType.String())
	}

	return &TrillianClient{
		treeID:    int64(treeID),
		logClient: trillian.NewTrillianLogClient(conn),
	}, nil
}

func (c *TrillianClient) Submit(ctx context.Context, t *tx.Transaction) (SubmitStatus, error) {
	serialized, err := marshalTransaction(t)
	if err != nil {
		return SubmitStatus{Rejected: true, Reason: err.Error()}, nil
	}

	log.Debug("queueing transaction %s", t.Key())
	rsp, err := c.logClient.QueueLeaf(ctx, &trillian.QueueLeafRequest{
		LogId: c.treeID,
		Leaf: &trillian.LogLeaf{
			LeafValue: serialized,
		},
	})
	switch status.Code(err) {
	case codes.OK:
		if rsp != nil && rsp.QueuedLeaf != nil && rsp.QueuedLeaf.Status != nil &&
			codes.Code(rsp.QueuedLeaf.Status.Code) == codes.AlreadyExists {
			return SubmitStatus{Duplicate: true}, nil
		}
		return SubmitStatus{}, nil
	case codes.AlreadyExists:
		return SubmitStatus{Duplicate: true}, nil
	case codes.InvalidArgument, codes.FailedPrecondition, codes.PermissionDenied:
		return SubmitStatus{Rejected: true, Reason: err.Error()}, nil
	default:
		return SubmitStatus{}, fmt.Errorf("back-end rpc failure: %v", err)
	}
}

func readTreeID(file string) (uint64, error) {
	f, err := os.Open(file)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	p := ascii.NewParser(f)
	return p.GetInt("tree-id")
}
