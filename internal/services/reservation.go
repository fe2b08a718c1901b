// reservation.go
//
// A reservation and booking web service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of reserva.
// reserva is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// reserva is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with reserva.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package services

import (
	"errors"
	"fmt"

	"github.com/localnerve/reserva/internal/models"
	"github.com/localnerve/reserva/internal/types"
	"gorm.io/gorm"
)

// Owner-scoped CRUD over orders and phone numbers. Every read, update
// and delete carries "user_id = ?" in its query predicate; there is no
// fetch-by-id followed by an owner comparison anywhere in this file.
// Reads are soft (anonymous gets an empty result), writes are hard
// (anonymous gets ErrUnauthenticated).

// maxNumberLen is the storage width of the phone number column.
const maxNumberLen = 9

// CreateOrder creates an order for the principal in the given category.
func CreateOrder(db *gorm.DB, principal types.Principal, categoryID uint64) (*models.Order, error) {
	if !principal.Authenticated {
		return nil, types.ErrUnauthenticated
	}
	if categoryID == 0 {
		return nil, fmt.Errorf("%w: category is required", types.ErrValidation)
	}

	var category models.Category
	if err := db.Where("category_id = ?", categoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}

	// Stamp the owner explicitly before persisting.
	order := models.Order{
		UserID:     principal.UserID,
		CategoryID: category.CategoryID,
	}
	if err := db.Create(&order).Error; err != nil {
		return nil, err
	}
	order.Category = category

	return &order, nil
}

// ListOrders returns the principal's orders with categories preloaded.
func ListOrders(db *gorm.DB, principal types.Principal) ([]models.Order, error) {
	if !principal.Authenticated {
		return []models.Order{}, nil
	}

	var orders []models.Order
	if err := db.Preload("Category").
		Where("user_id = ?", principal.UserID).
		Find(&orders).Error; err != nil {
		return nil, err
	}

	return orders, nil
}

// DeleteOrder removes one of the principal's orders. An id that exists
// under a different owner is reported exactly like a missing id.
func DeleteOrder(db *gorm.DB, principal types.Principal, orderID uint64) error {
	if !principal.Authenticated {
		return types.ErrUnauthenticated
	}

	result := db.Where("order_id = ? AND user_id = ?", orderID, principal.UserID).
		Delete(&models.Order{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return types.ErrNotFound
	}

	return nil
}

// CreateNumberPhone registers the principal's phone number. The insert
// is unguarded; the unique index on user_id rejects a second row, so
// there is no check-then-write race to lose.
func CreateNumberPhone(db *gorm.DB, principal types.Principal, number string) (*models.NumberPhone, error) {
	if !principal.Authenticated {
		return nil, types.ErrUnauthenticated
	}
	if err := validateNumber(number); err != nil {
		return nil, err
	}

	phone := models.NumberPhone{
		UserID: principal.UserID,
		Number: number,
	}
	if err := db.Create(&phone).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, types.ErrDuplicateOwner
		}
		return nil, err
	}

	return &phone, nil
}

// GetNumberPhone returns the principal's phone record, or nil when the
// principal is anonymous or has none. It never errors on an empty result.
func GetNumberPhone(db *gorm.DB, principal types.Principal) (*models.NumberPhone, error) {
	if !principal.Authenticated {
		return nil, nil
	}

	var phone models.NumberPhone
	err := db.Where("user_id = ?", principal.UserID).First(&phone).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &phone, nil
}

// GetNumberPhoneByID fetches one of the principal's phone records by id.
// Ids belonging to other owners are reported as missing.
func GetNumberPhoneByID(db *gorm.DB, principal types.Principal, phoneID uint64) (*models.NumberPhone, error) {
	if !principal.Authenticated {
		return nil, types.ErrNotFound
	}

	var phone models.NumberPhone
	err := db.Where("number_phone_id = ? AND user_id = ?", phoneID, principal.UserID).
		First(&phone).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}

	return &phone, nil
}

// UpdateNumberPhone replaces the number string on the principal's phone record.
func UpdateNumberPhone(db *gorm.DB, principal types.Principal, phoneID uint64, number string) (*models.NumberPhone, error) {
	if !principal.Authenticated {
		return nil, types.ErrUnauthenticated
	}
	if err := validateNumber(number); err != nil {
		return nil, err
	}

	var phone models.NumberPhone
	err := db.Where("number_phone_id = ? AND user_id = ?", phoneID, principal.UserID).
		First(&phone).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}

	phone.Number = number
	if err := db.Save(&phone).Error; err != nil {
		return nil, err
	}

	return &phone, nil
}

// DeleteNumberPhone removes the principal's phone record by id.
func DeleteNumberPhone(db *gorm.DB, principal types.Principal, phoneID uint64) error {
	if !principal.Authenticated {
		return types.ErrUnauthenticated
	}

	result := db.Where("number_phone_id = ? AND user_id = ?", phoneID, principal.UserID).
		Delete(&models.NumberPhone{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return types.ErrNotFound
	}

	return nil
}

// ListCategories returns every category, for the add-order form.
func ListCategories(db *gorm.DB) ([]models.Category, error) {
	var categories []models.Category
	if err := db.Order("category_name").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func validateNumber(number string) error {
	if number == "" {
		return fmt.Errorf("%w: number is required", types.ErrValidation)
	}
	if len(number) > maxNumberLen {
		return fmt.Errorf("%w: number exceeds %d characters", types.ErrValidation, maxNumberLen)
	}
	return nil
}
