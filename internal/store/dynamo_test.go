package store

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDynamo struct {
	puts    []*dynamodb.PutItemInput
	scans   []*dynamodb.ScanInput
	updates []*dynamodb.UpdateItemInput
	deletes []*dynamodb.DeleteItemInput

	scanPages []*dynamodb.ScanOutput
	scanErr   error
	putErr    error
}

func (s *stubDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	s.puts = append(s.puts, in)
	return &dynamodb.PutItemOutput{}, s.putErr
}

func (s *stubDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	copied := *in
	s.scans = append(s.scans, &copied)
	if s.scanErr != nil {
		return nil, s.scanErr
	}
	if len(s.scanPages) == 0 {
		return &dynamodb.ScanOutput{}, nil
	}
	page := s.scanPages[0]
	s.scanPages = s.scanPages[1:]
	return page, nil
}

func (s *stubDynamo) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	s.updates = append(s.updates, in)
	attrs := map[string]types.AttributeValue{}
	for k, v := range in.Key {
		attrs[k] = v
	}
	for placeholder, name := range in.ExpressionAttributeNames {
		attrs[name] = in.ExpressionAttributeValues[":"+placeholder[1:]]
	}
	return &dynamodb.UpdateItemOutput{Attributes: attrs}, nil
}

func (s *stubDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	s.deletes = append(s.deletes, in)
	return &dynamodb.DeleteItemOutput{Attributes: in.Key}, nil
}

func items(t *testing.T, recs ...map[string]any) []map[string]types.AttributeValue {
	t.Helper()
	out := make([]map[string]types.AttributeValue, 0, len(recs))
	for _, r := range recs {
		item, err := attributevalue.MarshalMap(r)
		require.NoError(t, err)
		out = append(out, item)
	}
	return out
}

var testKeys = map[string]string{"appointment": "appointment_id", "patient": "id"}

func TestDynamoInsertUsesConditionalPut(t *testing.T) {
	api := &stubDynamo{}
	s := NewDynamoStore(api, "mediscribe_", testKeys)

	rec, err := s.Insert(context.Background(), "patient", Record{"id": "p1", "name": "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", rec.String("name"))

	require.Len(t, api.puts, 1)
	assert.Equal(t, "mediscribe_patient", aws.ToString(api.puts[0].TableName))
	assert.Equal(t, "attribute_not_exists(#k)", aws.ToString(api.puts[0].ConditionExpression))
	assert.Equal(t, "id", api.puts[0].ExpressionAttributeNames["#k"])
}

func TestDynamoInsertRequiresKey(t *testing.T) {
	s := NewDynamoStore(&stubDynamo{}, "", testKeys)
	_, err := s.Insert(context.Background(), "patient", Record{"name": "Ada"})
	assert.ErrorIs(t, err, ErrStore)

	_, err = s.Insert(context.Background(), "unknown", Record{"id": "x"})
	assert.ErrorIs(t, err, ErrStore)
}

func TestDynamoQueryBuildsFilterAndFollowsPages(t *testing.T) {
	api := &stubDynamo{
		scanPages: []*dynamodb.ScanOutput{
			{
				Items:            items(t, map[string]any{"time": "9:00"}),
				LastEvaluatedKey: map[string]types.AttributeValue{"appointment_id": &types.AttributeValueMemberS{Value: "a1"}},
			},
			{Items: items(t, map[string]any{"time": "10:30"})},
		},
	}
	s := NewDynamoStore(api, "", testKeys)

	recs, err := s.Query(context.Background(), "appointment", Filter{"doctor_id": "doctorA", "date": "2025-02-22"}, "time")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "9:00", recs[0].String("time"))
	assert.Equal(t, "10:30", recs[1].String("time"))

	require.Len(t, api.scans, 2)
	first := api.scans[0]
	assert.Equal(t, "#f0 = :f0 AND #f1 = :f1", aws.ToString(first.FilterExpression))
	assert.Equal(t, "date", first.ExpressionAttributeNames["#f0"])
	assert.Equal(t, "doctor_id", first.ExpressionAttributeNames["#f1"])
	assert.Equal(t, "#p0", aws.ToString(first.ProjectionExpression))
	assert.Equal(t, "time", first.ExpressionAttributeNames["#p0"])
	assert.NotNil(t, api.scans[1].ExclusiveStartKey)
}

func TestDynamoUpdateTouchesEachMatch(t *testing.T) {
	api := &stubDynamo{
		scanPages: []*dynamodb.ScanOutput{{Items: items(t, map[string]any{"appointment_id": "a1"})}},
	}
	s := NewDynamoStore(api, "", testKeys)

	recs, err := s.Update(context.Background(), "appointment", Filter{"appointment_id": "a1"}, Record{"time": "11:00"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "11:00", recs[0].String("time"))
	assert.Equal(t, "a1", recs[0].String("appointment_id"))

	require.Len(t, api.updates, 1)
	assert.Equal(t, "SET #u0 = :u0", aws.ToString(api.updates[0].UpdateExpression))
	assert.Equal(t, types.ReturnValueAllNew, api.updates[0].ReturnValues)
}

func TestDynamoUpdateRejectsKeyChange(t *testing.T) {
	s := NewDynamoStore(&stubDynamo{}, "", testKeys)
	_, err := s.Update(context.Background(), "patient", Filter{"id": "p1"}, Record{"id": "p2"})
	assert.ErrorIs(t, err, ErrStore)
}

func TestDynamoDeleteReturnsOldItems(t *testing.T) {
	api := &stubDynamo{
		scanPages: []*dynamodb.ScanOutput{{Items: items(t, map[string]any{"id": "p1"})}},
	}
	s := NewDynamoStore(api, "", testKeys)

	recs, err := s.Delete(context.Background(), "patient", Filter{"id": "p1"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "p1", recs[0].String("id"))
	require.Len(t, api.deletes, 1)
	assert.Equal(t, types.ReturnValueAllOld, api.deletes[0].ReturnValues)
}

func TestDynamoScanFailureIsStoreError(t *testing.T) {
	s := NewDynamoStore(&stubDynamo{scanErr: errors.New("throttled")}, "", testKeys)
	_, err := s.Query(context.Background(), "patient", nil)
	assert.ErrorIs(t, err, ErrStore)
	assert.Contains(t, err.Error(), "throttled")
}
