package items

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/imrishuroy/go-catalog/internal/aws"
)

var (
	// ErrNotFound is returned when no item has the requested id.
	ErrNotFound = errors.New("item not found")
	// ErrAlreadyExists is returned by Create when the id is already taken.
	ErrAlreadyExists = errors.New("item already exists")
	// ErrStoreUnavailable wraps every failure of the backing table itself.
	ErrStoreUnavailable = errors.New("item store unavailable")
)

// nameLowerAttr holds the lower-cased name so List can filter server side.
const nameLowerAttr = "name_lower"

// Store encapsulates operations on the items table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
}

// NewStore creates a new items Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
	}
}

// List scans the whole table. A non-blank nameFilter keeps only items whose
// name contains it, ignoring case. Order is whatever the table returns.
func (s *Store) List(ctx context.Context, nameFilter string) ([]Item, error) {
	input := &dyn.ScanInput{
		TableName:      &s.tableName,
		ConsistentRead: sdkaws.Bool(true),
	}
	if strings.TrimSpace(nameFilter) != "" {
		input.FilterExpression = awsString("contains(" + nameLowerAttr + ", :q)")
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":q": &types.AttributeValueMemberS{Value: strings.ToLower(nameFilter)},
		}
	}

	result := make([]Item, 0)
	paginator := dyn.NewScanPaginator(s.client, input)
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: scan items: %w", ErrStoreUnavailable, err)
		}
		var page []Item
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshal items: %w", err)
		}
		result = append(result, page...)
	}
	return result, nil
}

// Get fetches an item by id. Returns ErrNotFound if it does not exist.
func (s *Store) Get(ctx context.Context, id string) (*Item, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName:      &s.tableName,
		Key:            itemKey(id),
		ConsistentRead: sdkaws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: get item: %w", ErrStoreUnavailable, err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}
	var it Item
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	return &it, nil
}

// Create inserts a new item. The put is guarded by attribute_not_exists(id)
// so an existing document is never overwritten.
func (s *Store) Create(ctx context.Context, it Item) error {
	item, err := marshalItem(it)
	if err != nil {
		return err
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("%w: put item: %w", ErrStoreUnavailable, err)
	}
	return nil
}

// Update replaces the stored item with the same id. Returns ErrNotFound if
// the item was deleted in the meantime.
func (s *Store) Update(ctx context.Context, it Item) error {
	item, err := marshalItem(it)
	if err != nil {
		return err
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_exists(id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: replace item: %w", ErrStoreUnavailable, err)
	}
	return nil
}

// Delete removes the item with the given id. Returns ErrNotFound if absent.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName:           &s.tableName,
		Key:                 itemKey(id),
		ConditionExpression: awsString("attribute_exists(id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: delete item: %w", ErrStoreUnavailable, err)
	}
	return nil
}

// Ping checks that the items table is reachable and usable.
func (s *Store) Ping(ctx context.Context) error {
	out, err := s.client.DescribeTable(ctx, &dyn.DescribeTableInput{
		TableName: &s.tableName,
	})
	if err != nil {
		return fmt.Errorf("%w: describe table: %w", ErrStoreUnavailable, err)
	}
	if out.Table == nil {
		return fmt.Errorf("%w: table %s not described", ErrStoreUnavailable, s.tableName)
	}
	switch out.Table.TableStatus {
	case types.TableStatusActive, types.TableStatusUpdating:
		return nil
	default:
		return fmt.Errorf("%w: table %s is %s", ErrStoreUnavailable, s.tableName, out.Table.TableStatus)
	}
}

func marshalItem(it Item) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(it)
	if err != nil {
		return nil, fmt.Errorf("marshal item: %w", err)
	}
	item[nameLowerAttr] = &types.AttributeValueMemberS{Value: strings.ToLower(it.Name)}
	return item, nil
}

func itemKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

func isConditionalCheckFailed(err error) bool {
	var cc *types.ConditionalCheckFailedException
	if errors.As(err, &cc) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "ConditionalCheckFailedException"
}

func awsString(s string) *string { return &s }
