package database

import (
	"context"
	"errors"
	"net/http"

	koji "github.com/ruskid/koji-core"
	"github.com/ruskid/koji-core/platform"
)

// REST paths of the document store endpoints.
const (
	pathGet            = "/v1/store/get"
	pathGetAll         = "/v1/store/getAll"
	pathGetWhere       = "/v1/store/getWhere"
	pathGetAllWhere    = "/v1/store/getAllWhere"
	pathGetCollections = "/v1/store/getCollections"
	pathSet            = "/v1/store/set"
	pathUpdate         = "/v1/store/update"
	pathDelete         = "/v1/store/delete"
)

var (
	// ErrInvalidCollection indicates an empty collection name.
	ErrInvalidCollection = errors.New("collection name is invalid")

	// ErrInvalidDocumentName indicates an empty document name.
	ErrInvalidDocumentName = errors.New("document name is invalid")

	// ErrInvalidDocument indicates a nil document body.
	ErrInvalidDocument = errors.New("document body is invalid")

	// ErrInvalidPredicate indicates a predicate without a key.
	ErrInvalidPredicate = errors.New("predicate key is invalid")
)

// Document is one record of a collection.
type Document map[string]any

// Predicate filters query operations by comparing the value at Key against
// Value. Operation is passed through to the store, for example "==", "<",
// "array-contains".
type Predicate struct {
	Key       string
	Operation string
	Value     any
}

// Client defines the document store capability interface.
type Client interface {
	// Get retrieves a single document from a collection.
	Get(ctx context.Context, collection, name string) (Document, error)

	// GetAll retrieves the named documents from a collection.
	GetAll(ctx context.Context, collection string, names []string) ([]Document, error)

	// GetWhere retrieves the first document matching the predicate.
	GetWhere(ctx context.Context, collection string, predicate Predicate) (Document, error)

	// GetAllWhere retrieves every document matching the predicate.
	GetAllWhere(ctx context.Context, collection string, predicate Predicate) ([]Document, error)

	// Collections lists the project's collection names.
	Collections(ctx context.Context) ([]string, error)

	// Set stores a document under the given name, replacing any existing
	// contents, and reports whether the store acknowledged the write.
	Set(ctx context.Context, collection, name string, contents Document) (bool, error)

	// Update merges contents into an existing document server-side.
	Update(ctx context.Context, collection, name string, contents Document) (bool, error)

	// Delete removes a document.
	Delete(ctx context.Context, collection, name string) (bool, error)
}

// Config controls how a Client instance reaches the platform store.
type Config struct {
	// SDKConfig provides the project identity and API endpoint used for
	// store requests.
	SDKConfig koji.RuntimeConfig

	// HTTPClient overrides the HTTP client used for store requests.
	HTTPClient *http.Client
}

// Database is the document store capability client implementation.
type Database struct {
	runtime koji.RuntimeConfig
	client  *http.Client
}

// Ensure Database satisfies the Client interface at compile time.
var _ Client = (*Database)(nil)

// New creates a document store client with endpoint defaults and optional
// HTTP client override.
func New(config Config) (*Database, error) {
	runtime := config.SDKConfig
	if runtime.ProjectID == "" {
		return nil, errors.Join(koji.ErrConfiguration, koji.ErrProjectIDEmpty)
	}
	if runtime.ProjectToken == "" {
		return nil, errors.Join(koji.ErrConfiguration, koji.ErrProjectTokenEmpty)
	}
	if runtime.APIEndpoint == "" {
		runtime.APIEndpoint = koji.DefaultAPIEndpoint
	}

	client := config.HTTPClient
	if client == nil {
		client = platform.DefaultClient()
	}

	return &Database{runtime: runtime, client: client}, nil
}

// docRequest is the wire form of the document-addressed endpoints.
type docRequest struct {
	Collection    string   `json:"collection"`
	DocumentName  string   `json:"documentName,omitempty"`
	DocumentNames []string `json:"documentNames,omitempty"`
	DocumentBody  Document `json:"documentBody,omitempty"`
}

// queryRequest is the wire form of the predicate endpoints. Predicate
// fields are always present so zero-valued comparisons survive encoding.
type queryRequest struct {
	Collection         string `json:"collection"`
	PredicateKey       string `json:"predicateKey"`
	PredicateOperation string `json:"predicateOperation"`
	PredicateValue     any    `json:"predicateValue"`
}

type documentReply struct {
	Document Document `json:"document"`
}

type documentsReply struct {
	Documents []Document `json:"documents"`
}

type collectionsReply struct {
	Collections []string `json:"collections"`
}

type mutationReply struct {
	Success bool `json:"success"`
}

// Get retrieves a single document from a collection.
func (d *Database) Get(ctx context.Context, collection, name string) (Document, error) {
	if collection == "" {
		return nil, ErrInvalidCollection
	}
	if name == "" {
		return nil, ErrInvalidDocumentName
	}

	reply, err := platform.Post[documentReply](ctx, d.client, d.runtime, pathGet, docRequest{
		Collection:   collection,
		DocumentName: name,
	})
	if err != nil {
		return nil, err
	}
	return reply.Document, nil
}

// GetAll retrieves the named documents from a collection.
func (d *Database) GetAll(ctx context.Context, collection string, names []string) ([]Document, error) {
	if collection == "" {
		return nil, ErrInvalidCollection
	}

	reply, err := platform.Post[documentsReply](ctx, d.client, d.runtime, pathGetAll, docRequest{
		Collection:    collection,
		DocumentNames: names,
	})
	if err != nil {
		return nil, err
	}
	return reply.Documents, nil
}

// GetWhere retrieves the first document matching the predicate.
func (d *Database) GetWhere(ctx context.Context, collection string, predicate Predicate) (Document, error) {
	if collection == "" {
		return nil, ErrInvalidCollection
	}
	if predicate.Key == "" {
		return nil, ErrInvalidPredicate
	}

	reply, err := platform.Post[documentReply](ctx, d.client, d.runtime, pathGetWhere, queryRequest{
		Collection:         collection,
		PredicateKey:       predicate.Key,
		PredicateOperation: predicate.Operation,
		PredicateValue:     predicate.Value,
	})
	if err != nil {
		return nil, err
	}
	return reply.Document, nil
}

// GetAllWhere retrieves every document matching the predicate.
func (d *Database) GetAllWhere(ctx context.Context, collection string, predicate Predicate) ([]Document, error) {
	if collection == "" {
		return nil, ErrInvalidCollection
	}
	if predicate.Key == "" {
		return nil, ErrInvalidPredicate
	}

	reply, err := platform.Post[documentsReply](ctx, d.client, d.runtime, pathGetAllWhere, queryRequest{
		Collection:         collection,
		PredicateKey:       predicate.Key,
		PredicateOperation: predicate.Operation,
		PredicateValue:     predicate.Value,
	})
	if err != nil {
		return nil, err
	}
	return reply.Documents, nil
}

// Collections lists the project's collection names.
func (d *Database) Collections(ctx context.Context) ([]string, error) {
	reply, err := platform.Post[collectionsReply](ctx, d.client, d.runtime, pathGetCollections, struct{}{})
	if err != nil {
		return nil, err
	}
	return reply.Collections, nil
}

// Set stores a document under the given name, replacing any existing
// contents.
func (d *Database) Set(ctx context.Context, collection, name string, contents Document) (bool, error) {
	if collection == "" {
		return false, ErrInvalidCollection
	}
	if name == "" {
		return false, ErrInvalidDocumentName
	}
	if contents == nil {
		return false, ErrInvalidDocument
	}

	reply, err := platform.Post[mutationReply](ctx, d.client, d.runtime, pathSet, docRequest{
		Collection:   collection,
		DocumentName: name,
		DocumentBody: contents,
	})
	if err != nil {
		return false, err
	}
	return reply.Success, nil
}

// Update merges contents into an existing document server-side.
func (d *Database) Update(ctx context.Context, collection, name string, contents Document) (bool, error) {
	if collection == "" {
		return false, ErrInvalidCollection
	}
	if name == "" {
		return false, ErrInvalidDocumentName
	}
	if contents == nil {
		return false, ErrInvalidDocument
	}

	reply, err := platform.Post[mutationReply](ctx, d.client, d.runtime, pathUpdate, docRequest{
		Collection:   collection,
		DocumentName: name,
		DocumentBody: contents,
	})
	if err != nil {
		return false, err
	}
	return reply.Success, nil
}

// Delete removes a document.
func (d *Database) Delete(ctx context.Context, collection, name string) (bool, error) {
	if collection == "" {
		return false, ErrInvalidCollection
	}
	if name == "" {
		return false, ErrInvalidDocumentName
	}

	reply, err := platform.Post[mutationReply](ctx, d.client, d.runtime, pathDelete, docRequest{
		Collection:   collection,
		DocumentName: name,
	})
	if err != nil {
		return false, err
	}
	return reply.Success, nil
}
