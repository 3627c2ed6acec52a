// Package dynamo implements the conditional store contract on DynamoDB.
// One physical table holds both record kinds: (identifier, namespace) is the
// composite primary key and a namespace-keyed global secondary index serves
// the per-namespace listings.
package dynamo

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/gear6io/glacier/pkg/errors"
	"github.com/gear6io/glacier/server/catalog/store"
)

const (
	colIdentifier = "identifier"
	colNamespace  = "namespace"

	// NamespaceIndex is the GSI that inverts the key pair for
	// namespace-scoped queries.
	NamespaceIndex = "namespace-identifier"

	conditionAbsent  = "attribute_not_exists(" + colIdentifier + ")"
	conditionPresent = "attribute_exists(" + colIdentifier + ")"

	tableWaitTimeout = 2 * time.Minute
)

// Package-specific error codes
var (
	ErrSessionFailed   = errors.MustNewCode("dynamo.session_failed")
	ErrBootstrapFailed = errors.MustNewCode("dynamo.bootstrap_failed")
)

// Config carries the connection settings for the DynamoDB-backed store.
// Credentials are optional; when unset the default AWS credential chain
// applies. Endpoint overrides the service URL for local stacks.
type Config struct {
	TableName       string
	Region          string
	Endpoint        string
	Profile         string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// Store implements store.Store against a DynamoDB table.
type Store struct {
	client    *dynamodb.Client
	tableName string
}

var _ store.Store = (*Store)(nil)

// New builds the client from cfg and ensures the catalog table exists,
// creating it (with the namespace index) on first use.
func New(ctx context.Context, cfg Config) (*Store, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.New(ErrSessionFailed, "failed to load AWS configuration", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return NewWithClient(ctx, client, cfg.TableName)
}

// NewWithClient wraps an existing DynamoDB client, for callers that manage
// their own session.
func NewWithClient(ctx context.Context, client *dynamodb.Client, tableName string) (*Store, error) {
	s := &Store{client: client, tableName: tableName}
	if err := s.ensureCatalogTable(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// ensureCatalogTable creates the backing table on first use and waits for it
// to become ACTIVE.
func (s *Store) ensureCatalogTable(ctx context.Context) error {
	_, err := s.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.tableName),
	})
	if err == nil {
		return nil
	}
	var notFound *types.ResourceNotFoundException
	if !stderrors.As(err, &notFound) {
		return errors.New(store.ErrUnavailable, "failed to describe catalog table", err).
			AddContext("table_name", s.tableName)
	}

	_, err = s.client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName:   aws.String(s.tableName),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(colIdentifier), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String(colNamespace), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(colIdentifier), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String(colNamespace), KeyType: types.KeyTypeRange},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			{
				IndexName: aws.String(NamespaceIndex),
				KeySchema: []types.KeySchemaElement{
					{AttributeName: aws.String(colNamespace), KeyType: types.KeyTypeHash},
					{AttributeName: aws.String(colIdentifier), KeyType: types.KeyTypeRange},
				},
				Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
			},
		},
	})
	if err != nil {
		var inUse *types.ResourceInUseException
		if !stderrors.As(err, &inUse) {
			return errors.New(ErrBootstrapFailed, "failed to create catalog table", err).
				AddContext("table_name", s.tableName)
		}
		// another caller won the create race; fall through to the waiter
	}

	waiter := dynamodb.NewTableExistsWaiter(s.client)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(s.tableName),
	}, tableWaitTimeout); err != nil {
		return errors.New(ErrBootstrapFailed, "catalog table did not become active", err).
			AddContext("table_name", s.tableName)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key store.Key) (store.Record, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            keyAttributes(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return store.Record{}, errors.New(store.ErrUnavailable, "failed to get record", err).
			AddContext("identifier", key.Identifier)
	}
	if len(out.Item) == 0 {
		return store.Record{}, errors.New(store.ErrRecordNotFound, "record not found", nil).
			AddContext("identifier", key.Identifier)
	}
	return unmarshalRecord(out.Item), nil
}

func (s *Store) Put(ctx context.Context, rec store.Record, cond store.Condition) error {
	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                marshalRecord(rec),
		ConditionExpression: aws.String(conditionExpression(cond)),
	})
	return translateWriteError(err, rec.Key(), cond)
}

func (s *Store) Delete(ctx context.Context, key store.Key, cond store.Condition) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(s.tableName),
		Key:                 keyAttributes(key),
		ConditionExpression: aws.String(conditionExpression(cond)),
	})
	return translateWriteError(err, key, cond)
}

// Query pages through either the primary key (identifier filter) or the
// namespace index (namespace filter).
func (s *Store) Query(ctx context.Context, f store.Filter) ([]store.Record, error) {
	input := &dynamodb.QueryInput{
		TableName: aws.String(s.tableName),
	}
	switch {
	case f.Identifier != "":
		input.KeyConditionExpression = aws.String(colIdentifier + " = :identifier")
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":identifier": &types.AttributeValueMemberS{Value: f.Identifier},
		}
	case f.Namespace != "":
		input.IndexName = aws.String(NamespaceIndex)
		input.KeyConditionExpression = aws.String(colNamespace + " = :namespace")
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":namespace": &types.AttributeValueMemberS{Value: f.Namespace},
		}
	default:
		return nil, errors.New(store.ErrUnavailable, "query filter must set identifier or namespace", nil)
	}

	var recs []store.Record
	paginator := dynamodb.NewQueryPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.New(store.ErrUnavailable, "failed to query records", err)
		}
		for _, item := range page.Items {
			recs = append(recs, unmarshalRecord(item))
		}
	}
	return recs, nil
}

func conditionExpression(cond store.Condition) string {
	if cond == store.IfPresent {
		return conditionPresent
	}
	return conditionAbsent
}

// translateWriteError keeps condition rejections distinct from transport
// failures; callers upstream map the former to domain conflicts.
func translateWriteError(err error, key store.Key, cond store.Condition) error {
	if err == nil {
		return nil
	}
	var condFailed *types.ConditionalCheckFailedException
	if stderrors.As(err, &condFailed) {
		return errors.New(store.ErrConditionFailed, "conditional write rejected", err).
			AddContext("identifier", key.Identifier).
			AddContext("condition", cond.String())
	}
	return errors.New(store.ErrUnavailable, "store write failed", err).
		AddContext("identifier", key.Identifier)
}

func keyAttributes(key store.Key) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		colIdentifier: &types.AttributeValueMemberS{Value: key.Identifier},
		colNamespace:  &types.AttributeValueMemberS{Value: key.Namespace},
	}
}

func marshalRecord(rec store.Record) map[string]types.AttributeValue {
	item := make(map[string]types.AttributeValue, len(rec.Attributes)+2)
	item[colIdentifier] = &types.AttributeValueMemberS{Value: rec.Identifier}
	item[colNamespace] = &types.AttributeValueMemberS{Value: rec.Namespace}
	for k, v := range rec.Attributes {
		item[k] = &types.AttributeValueMemberS{Value: v}
	}
	return item
}

func unmarshalRecord(item map[string]types.AttributeValue) store.Record {
	rec := store.Record{Attributes: make(map[string]string, len(item))}
	for k, v := range item {
		sv, ok := v.(*types.AttributeValueMemberS)
		if !ok {
			continue
		}
		switch k {
		case colIdentifier:
			rec.Identifier = sv.Value
		case colNamespace:
			rec.Namespace = sv.Value
		default:
			rec.Attributes[k] = sv.Value
		}
	}
	return rec
}
