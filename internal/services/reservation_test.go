package services_test

import (
	"testing"

	"github.com/localnerve/reserva/internal/models"
	"github.com/localnerve/reserva/internal/services"
	"github.com/localnerve/reserva/internal/types"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Order{},
		&models.NumberPhone{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) types.Principal {
	user, err := services.SignupUser(db, username, "password123")
	require.NoError(t, err)
	return types.AuthenticatedPrincipal(user.ID, user.Username)
}

func seedCategory(t *testing.T, db *gorm.DB, name string) models.Category {
	category := models.Category{CategoryName: name}
	require.NoError(t, db.Create(&category).Error)
	return category
}

func TestCreateOrderStampsOwner(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice")
	category := seedCategory(t, db, "Haircut")

	order, err := services.CreateOrder(db, alice, category.CategoryID)
	require.NoError(t, err)
	require.Equal(t, alice.UserID, order.UserID)
	require.Equal(t, category.CategoryID, order.CategoryID)
	require.Equal(t, "Haircut", order.Category.CategoryName)
}

func TestCreateOrderUnknownCategory(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice")

	_, err := services.CreateOrder(db, alice, 9999)
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestCreateOrderAnonymous(t *testing.T) {
	db := setupTestDB(t)
	category := seedCategory(t, db, "Haircut")

	_, err := services.CreateOrder(db, types.Anonymous(), category.CategoryID)
	require.ErrorIs(t, err, types.ErrUnauthenticated)
}

func TestListOrdersScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	haircut := seedCategory(t, db, "Haircut")
	massage := seedCategory(t, db, "Massage")

	_, err := services.CreateOrder(db, alice, haircut.CategoryID)
	require.NoError(t, err)
	_, err = services.CreateOrder(db, alice, massage.CategoryID)
	require.NoError(t, err)
	_, err = services.CreateOrder(db, bob, haircut.CategoryID)
	require.NoError(t, err)

	aliceOrders, err := services.ListOrders(db, alice)
	require.NoError(t, err)
	require.Len(t, aliceOrders, 2)
	for _, order := range aliceOrders {
		require.Equal(t, alice.UserID, order.UserID)
		require.NotEmpty(t, order.Category.CategoryName)
	}

	bobOrders, err := services.ListOrders(db, bob)
	require.NoError(t, err)
	require.Len(t, bobOrders, 1)
}

func TestListOrdersAnonymousEmpty(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice")
	category := seedCategory(t, db, "Haircut")
	_, err := services.CreateOrder(db, alice, category.CategoryID)
	require.NoError(t, err)

	orders, err := services.ListOrders(db, types.Anonymous())
	require.NoError(t, err)
	require.Empty(t, orders)
}

func TestDeleteOrderMasksOtherOwners(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	category := seedCategory(t, db, "Haircut")

	order, err := services.CreateOrder(db, alice, category.CategoryID)
	require.NoError(t, err)

	// Bob deleting Alice's order reads exactly like a missing id.
	err = services.DeleteOrder(db, bob, order.OrderID)
	require.ErrorIs(t, err, types.ErrNotFound)

	var count int64
	db.Model(&models.Order{}).Count(&count)
	require.EqualValues(t, 1, count)

	require.NoError(t, services.DeleteOrder(db, alice, order.OrderID))
	db.Model(&models.Order{}).Count(&count)
	require.EqualValues(t, 0, count)
}

func TestCreateNumberPhoneOnePerUser(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	phone, err := services.CreateNumberPhone(db, alice, "555123456")
	require.NoError(t, err)
	require.Equal(t, alice.UserID, phone.UserID)

	// A second registration for the same user hits the unique index.
	_, err = services.CreateNumberPhone(db, alice, "555999999")
	require.ErrorIs(t, err, types.ErrDuplicateOwner)

	// A different user is unaffected.
	_, err = services.CreateNumberPhone(db, bob, "555777777")
	require.NoError(t, err)

	var count int64
	db.Model(&models.NumberPhone{}).Count(&count)
	require.EqualValues(t, 2, count)
}

func TestCreateNumberPhoneValidation(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice")

	_, err := services.CreateNumberPhone(db, alice, "")
	require.ErrorIs(t, err, types.ErrValidation)

	_, err = services.CreateNumberPhone(db, alice, "0123456789")
	require.ErrorIs(t, err, types.ErrValidation)

	_, err = services.CreateNumberPhone(db, alice, "012345678")
	require.NoError(t, err)
}

func TestGetNumberPhoneSoftRead(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice")

	phone, err := services.GetNumberPhone(db, types.Anonymous())
	require.NoError(t, err)
	require.Nil(t, phone)

	phone, err = services.GetNumberPhone(db, alice)
	require.NoError(t, err)
	require.Nil(t, phone)

	_, err = services.CreateNumberPhone(db, alice, "555123456")
	require.NoError(t, err)

	phone, err = services.GetNumberPhone(db, alice)
	require.NoError(t, err)
	require.NotNil(t, phone)
	require.Equal(t, "555123456", phone.Number)
}

func TestGetNumberPhoneByIDMasksOtherOwners(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	phone, err := services.CreateNumberPhone(db, alice, "555123456")
	require.NoError(t, err)

	got, err := services.GetNumberPhoneByID(db, alice, phone.NumberPhoneID)
	require.NoError(t, err)
	require.Equal(t, phone.NumberPhoneID, got.NumberPhoneID)

	_, err = services.GetNumberPhoneByID(db, bob, phone.NumberPhoneID)
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestUpdateNumberPhoneMasksOtherOwners(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	phone, err := services.CreateNumberPhone(db, alice, "555123456")
	require.NoError(t, err)

	_, err = services.UpdateNumberPhone(db, bob, phone.NumberPhoneID, "666000000")
	require.ErrorIs(t, err, types.ErrNotFound)

	var unchanged models.NumberPhone
	require.NoError(t, db.First(&unchanged, phone.NumberPhoneID).Error)
	require.Equal(t, "555123456", unchanged.Number)

	updated, err := services.UpdateNumberPhone(db, alice, phone.NumberPhoneID, "666000000")
	require.NoError(t, err)
	require.Equal(t, "666000000", updated.Number)
}

func TestDeleteNumberPhone(t *testing.T) {
	db := setupTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	phone, err := services.CreateNumberPhone(db, alice, "555123456")
	require.NoError(t, err)

	require.ErrorIs(t, services.DeleteNumberPhone(db, bob, phone.NumberPhoneID), types.ErrNotFound)
	require.NoError(t, services.DeleteNumberPhone(db, alice, phone.NumberPhoneID))
	require.ErrorIs(t, services.DeleteNumberPhone(db, alice, phone.NumberPhoneID), types.ErrNotFound)
}

func TestListCategories(t *testing.T) {
	db := setupTestDB(t)
	seedCategory(t, db, "Massage")
	seedCategory(t, db, "Haircut")

	categories, err := services.ListCategories(db)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	require.Equal(t, "Haircut", categories[0].CategoryName)
}
