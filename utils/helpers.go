package utils

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// mobileRegex matches Indian mobile numbers: 10 digits starting 6-9.
var mobileRegex = regexp.MustCompile(`^[6-9]\d{9}$`)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// CheckPassword compares a password with its hash
func CheckPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// GenerateRandomString generates a random string of specified length
func GenerateRandomString(length int) (string, error) {
	bytes := make([]byte, length/2)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// IsValidMobileNumber validates a mobile number (10 digits, leading 6-9)
func IsValidMobileNumber(mobile string) bool {
	return mobileRegex.MatchString(mobile)
}

// IsValidAgentRole checks if an agent hierarchy role is valid
func IsValidAgentRole(role string) bool {
	switch role {
	case "coordinator", "supervisor", "group_leader", "pro":
		return true
	}
	return false
}

// IsValidAdminRole checks if an administrative role is valid
func IsValidAdminRole(role string) bool {
	switch role {
	case "super_admin", "local_admin", "user_admin":
		return true
	}
	return false
}

// ParentRole returns the only allowed superior role for an agent role.
// Coordinators have no superior and return "".
func ParentRole(role string) string {
	switch role {
	case "supervisor":
		return "coordinator"
	case "group_leader":
		return "supervisor"
	case "pro":
		return "group_leader"
	}
	return ""
}

// DisplayRole returns the fixed display label for a role. Case and
// spacing must match existing exports exactly.
func DisplayRole(role string) string {
	switch role {
	case "coordinator":
		return "Coordinator"
	case "supervisor":
		return "Supervisor"
	case "group_leader":
		return "Group Leader"
	case "pro":
		return "P.R.O"
	}
	return role
}

// RoleFromDisplay maps a display label back to the stored role value.
func RoleFromDisplay(label string) string {
	switch strings.TrimSpace(label) {
	case "Coordinator":
		return "coordinator"
	case "Supervisor":
		return "supervisor"
	case "Group Leader":
		return "group_leader"
	case "P.R.O":
		return "pro"
	}
	return ""
}

// IsValidTaskStatus checks a task status value
func IsValidTaskStatus(status string) bool {
	switch status {
	case "pending", "completed", "cancelled":
		return true
	}
	return false
}

// IsValidTaskPriority checks a task priority value
func IsValidTaskPriority(priority string) bool {
	switch priority {
	case "high", "medium", "normal":
		return true
	}
	return false
}

// SanitizeString removes dangerous characters from string
func SanitizeString(input string) string {
	// Remove null bytes and control characters
	input = strings.ReplaceAll(input, "\x00", "")

	// Trim whitespace
	input = strings.TrimSpace(input)

	return input
}
