package databases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/rider-safety-api/databases"
	"github.com/linesmerrill/rider-safety-api/databases/mocks"
	"github.com/linesmerrill/rider-safety-api/models"
)

func TestChallanDatabase_InsertOneAppliesDefaults(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	collectionHelper.On("InsertOne", mock.Anything, mock.AnythingOfType("*models.Challan")).
		Return(&mocks.InsertOneResultHelper{}, nil)
	dbHelper.On("Collection", "challans").Return(collectionHelper)

	challan := &models.Challan{Amount: 1500}
	id, err := databases.NewChallanDatabase(dbHelper).InsertOne(context.Background(), challan)

	assert.NoError(t, err)
	assert.Equal(t, id, challan.ID)
	assert.Equal(t, models.PaymentPending, challan.PaymentStatus)
	assert.Equal(t, models.PaymentUPI, challan.PaymentMethod)
	assert.False(t, challan.Date.IsZero())
}

func TestChallanDatabase_FindByIDsEmptySkipsQuery(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}

	challans, err := databases.NewChallanDatabase(dbHelper).FindByIDs(context.Background(), nil)

	assert.NoError(t, err)
	assert.Equal(t, []models.Challan{}, challans)
	dbHelper.AssertNotCalled(t, "Collection", mock.Anything)
}

func TestChallanDatabase_FindPendingBefore(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	cursorErr := &mocks.CursorHelper{}

	cursorErr.On("Decode", mock.Anything).Return(errors.New("mocked-error"))
	collectionHelper.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(cursorErr, nil)
	dbHelper.On("Collection", "challans").Return(collectionHelper)

	challans, err := databases.NewChallanDatabase(dbHelper).FindPendingBefore(context.Background(), time.Now())

	assert.Nil(t, challans)
	assert.EqualError(t, err, "mocked-error")
}

func TestInstanceDatabase_FindByIDsDecodesResults(t *testing.T) {
	ids := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}

	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	cursor := &mocks.CursorHelper{}

	cursor.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*[]models.Instance)
		*arg = []models.Instance{{ID: ids[0]}, {ID: ids[1]}}
	})
	collectionHelper.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(cursor, nil)
	dbHelper.On("Collection", "instances").Return(collectionHelper)

	instances, err := databases.NewInstanceDatabase(dbHelper).FindByIDs(context.Background(), ids)

	assert.NoError(t, err)
	assert.Equal(t, ids[0], instances[0].ID)
	assert.Equal(t, ids[1], instances[1].ID)
}
