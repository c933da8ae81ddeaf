package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type dynamoAPI interface {
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Scan(context.Context, *dynamodb.ScanInput, ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	UpdateItem(context.Context, *dynamodb.UpdateItemInput, ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(context.Context, *dynamodb.DeleteItemInput, ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// DynamoStore maps each collection to a table named prefix+collection whose
// partition key is the collection's identity column.
type DynamoStore struct {
	client dynamoAPI
	prefix string
	keys   map[string]string
}

// NewDynamoStore builds a store backed by the provided DynamoDB client.
// keys maps collection name to its partition key attribute.
func NewDynamoStore(client dynamoAPI, tablePrefix string, keys map[string]string) *DynamoStore {
	if client == nil {
		panic("store: dynamodb client cannot be nil")
	}
	copied := make(map[string]string, len(keys))
	for k, v := range keys {
		copied[k] = v
	}
	return &DynamoStore{client: client, prefix: tablePrefix, keys: copied}
}

func (s *DynamoStore) table(collection string) *string {
	return aws.String(s.prefix + collection)
}

func (s *DynamoStore) Insert(ctx context.Context, collection string, rec Record) (Record, error) {
	key, err := s.keyFor(collection)
	if err != nil {
		return nil, wrap("insert", collection, err)
	}
	if rec.String(key) == "" {
		return nil, wrap("insert", collection, fmt.Errorf("missing key attribute %q", key))
	}
	item, err := attributevalue.MarshalMap(map[string]any(rec))
	if err != nil {
		return nil, wrap("insert", collection, fmt.Errorf("marshal record: %w", err))
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                s.table(collection),
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#k)"),
		ExpressionAttributeNames: map[string]string{"#k": key},
	})
	if err != nil {
		return nil, wrap("insert", collection, err)
	}
	return rec.Clone(), nil
}

func (s *DynamoStore) Query(ctx context.Context, collection string, filter Filter, columns ...string) ([]Record, error) {
	recs, err := s.scan(ctx, collection, filter, columns)
	if err != nil {
		return nil, wrap("query", collection, err)
	}
	return recs, nil
}

func (s *DynamoStore) Update(ctx context.Context, collection string, filter Filter, fields Record) ([]Record, error) {
	if len(filter) == 0 {
		return nil, wrap("update", collection, ErrEmptyFilter)
	}
	if len(fields) == 0 {
		return s.Query(ctx, collection, filter)
	}
	key, err := s.keyFor(collection)
	if err != nil {
		return nil, wrap("update", collection, err)
	}
	if _, ok := fields[key]; ok {
		return nil, wrap("update", collection, fmt.Errorf("key attribute %q cannot be updated", key))
	}
	matched, err := s.scan(ctx, collection, filter, []string{key})
	if err != nil {
		return nil, wrap("update", collection, err)
	}

	names := make(map[string]string, len(fields))
	values := make(map[string]types.AttributeValue, len(fields))
	sets := make([]string, 0, len(fields))
	for i, k := range fields.Keys() {
		n, v := fmt.Sprintf("#u%d", i), fmt.Sprintf(":u%d", i)
		av, err := attributevalue.Marshal(fields[k])
		if err != nil {
			return nil, wrap("update", collection, fmt.Errorf("marshal %s: %w", k, err))
		}
		names[n] = k
		values[v] = av
		sets = append(sets, n+" = "+v)
	}

	out := make([]Record, 0, len(matched))
	for _, m := range matched {
		keyAV, err := attributevalue.Marshal(m[key])
		if err != nil {
			return nil, wrap("update", collection, err)
		}
		resp, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
			TableName:                 s.table(collection),
			Key:                       map[string]types.AttributeValue{key: keyAV},
			UpdateExpression:          aws.String("SET " + strings.Join(sets, ", ")),
			ExpressionAttributeNames:  names,
			ExpressionAttributeValues: values,
			ReturnValues:              types.ReturnValueAllNew,
		})
		if err != nil {
			return nil, wrap("update", collection, err)
		}
		var rec Record
		if err := attributevalue.UnmarshalMap(resp.Attributes, &rec); err != nil {
			return nil, wrap("update", collection, fmt.Errorf("unmarshal record: %w", err))
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *DynamoStore) Delete(ctx context.Context, collection string, filter Filter) ([]Record, error) {
	if len(filter) == 0 {
		return nil, wrap("delete", collection, ErrEmptyFilter)
	}
	key, err := s.keyFor(collection)
	if err != nil {
		return nil, wrap("delete", collection, err)
	}
	matched, err := s.scan(ctx, collection, filter, []string{key})
	if err != nil {
		return nil, wrap("delete", collection, err)
	}

	out := make([]Record, 0, len(matched))
	for _, m := range matched {
		keyAV, err := attributevalue.Marshal(m[key])
		if err != nil {
			return nil, wrap("delete", collection, err)
		}
		resp, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName:    s.table(collection),
			Key:          map[string]types.AttributeValue{key: keyAV},
			ReturnValues: types.ReturnValueAllOld,
		})
		if err != nil {
			return nil, wrap("delete", collection, err)
		}
		if len(resp.Attributes) == 0 {
			continue
		}
		var rec Record
		if err := attributevalue.UnmarshalMap(resp.Attributes, &rec); err != nil {
			return nil, wrap("delete", collection, fmt.Errorf("unmarshal record: %w", err))
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *DynamoStore) keyFor(collection string) (string, error) {
	key, ok := s.keys[collection]
	if !ok || key == "" {
		return "", fmt.Errorf("no key attribute configured for collection %q", collection)
	}
	return key, nil
}

func (s *DynamoStore) scan(ctx context.Context, collection string, filter Filter, columns []string) ([]Record, error) {
	input := &dynamodb.ScanInput{TableName: s.table(collection)}
	names := map[string]string{}

	if len(filter) > 0 {
		values := make(map[string]types.AttributeValue, len(filter))
		conds := make([]string, 0, len(filter))
		for i, k := range filter.Keys() {
			n, v := fmt.Sprintf("#f%d", i), fmt.Sprintf(":f%d", i)
			av, err := attributevalue.Marshal(filter[k])
			if err != nil {
				return nil, fmt.Errorf("marshal filter %s: %w", k, err)
			}
			names[n] = k
			values[v] = av
			conds = append(conds, n+" = "+v)
		}
		input.FilterExpression = aws.String(strings.Join(conds, " AND "))
		input.ExpressionAttributeValues = values
	}
	if len(columns) > 0 {
		proj := make([]string, len(columns))
		for i, c := range columns {
			n := fmt.Sprintf("#p%d", i)
			names[n] = c
			proj[i] = n
		}
		input.ProjectionExpression = aws.String(strings.Join(proj, ", "))
	}
	if len(names) > 0 {
		input.ExpressionAttributeNames = names
	}

	out := make([]Record, 0)
	for {
		resp, err := s.client.Scan(ctx, input)
		if err != nil {
			return nil, err
		}
		var page []Record
		if err := attributevalue.UnmarshalListOfMaps(resp.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshal items: %w", err)
		}
		out = append(out, page...)
		if len(resp.LastEvaluatedKey) == 0 {
			return out, nil
		}
		input.ExclusiveStartKey = resp.LastEvaluatedKey
	}
}
