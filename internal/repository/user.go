package repository

import (
	"context"

	"cogsuite-go/internal/database"
	"cogsuite-go/internal/models"
)

func CreateUser(email, password, firstName, lastName string) (*models.User, error) {
	user := &models.User{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
	}
	if err := user.HashPassword(password); err != nil {
		return nil, err
	}
	result := database.DB.Create(user)
	return user, result.Error
}

func GetUserByEmail(c context.Context, email string) (*models.User, error) {
	var user models.User
	result := database.DB.WithContext(c).First(&user, "email = ?", email)
	return &user, result.Error
}

func GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	result := database.DB.WithContext(ctx).First(&user, id)
	return &user, result.Error
}

func UpdateUser(ctx context.Context, userID uint, firstName, lastName string) error {
	return database.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{"first_name": firstName, "last_name": lastName}).Error
}

func UpdateUserPassword(ctx context.Context, userID uint, newPassword string) error {
	var user models.User
	if err := user.HashPassword(newPassword); err != nil {
		return err
	}
	return database.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("password", user.Password).Error
}

func DeleteUser(ctx context.Context, userID uint) error {
	return database.DB.WithContext(ctx).Delete(&models.User{}, userID).Error
}
