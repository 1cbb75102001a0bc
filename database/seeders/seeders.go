package seeders

import (
	"log"

	"panchayath_go/database"
	"panchayath_go/models"
	"panchayath_go/utils"
)

// SeedAll runs all seeders
func SeedAll() {
	log.Println("Starting database seeding...")

	SeedUsers()
	SeedPanchayaths()
	SeedAgents()

	log.Println("Database seeding completed successfully!")
}

// SeedUsers creates one admin account per admin role
func SeedUsers() {
	var count int64
	database.DB.Model(&models.User{}).Count(&count)
	if count > 0 {
		log.Println("Users already seeded, skipping...")
		return
	}

	hashedPassword, _ := utils.HashPassword("password123")

	users := []models.User{
		{
			Username: "superadmin",
			Password: hashedPassword,
			Email:    "superadmin@panchayath.local",
			Phone:    "9846000001",
			Role:     models.RoleSuperAdmin,
			Status:   "active",
		},
		{
			Username: "localadmin",
			Password: hashedPassword,
			Email:    "localadmin@panchayath.local",
			Phone:    "9846000002",
			Role:     models.RoleLocalAdmin,
			Status:   "active",
		},
		{
			Username: "useradmin",
			Password: hashedPassword,
			Email:    "useradmin@panchayath.local",
			Phone:    "9846000003",
			Role:     models.RoleUserAdmin,
			Status:   "active",
		},
	}

	for _, user := range users {
		if err := database.DB.Create(&user).Error; err != nil {
			log.Printf("Error seeding user %s: %v", user.Username, err)
		}
	}

	log.Println("Users seeded successfully")
}

// SeedPanchayaths creates a sample panchayath
func SeedPanchayaths() {
	var count int64
	database.DB.Model(&models.Panchayath{}).Count(&count)
	if count > 0 {
		log.Println("Panchayaths already seeded, skipping...")
		return
	}

	panchayath := models.Panchayath{
		Name:     "Edappal",
		District: "Malappuram",
		State:    "Kerala",
	}
	if err := database.DB.Create(&panchayath).Error; err != nil {
		log.Printf("Error seeding panchayath %s: %v", panchayath.Name, err)
		return
	}

	log.Println("Panchayaths seeded successfully")
}

// SeedAgents creates a four-level sample chain under the seeded panchayath
func SeedAgents() {
	var count int64
	database.DB.Model(&models.Agent{}).Count(&count)
	if count > 0 {
		log.Println("Agents already seeded, skipping...")
		return
	}

	var panchayath models.Panchayath
	if err := database.DB.First(&panchayath).Error; err != nil {
		log.Printf("No panchayath available for agent seeding: %v", err)
		return
	}

	coordinator := models.Agent{
		Name:         "Fousiya",
		Role:         models.RoleCoordinator,
		PanchayathID: panchayath.ID,
		Phone:        "9846012345",
		Ward:         "3",
	}
	if err := database.DB.Create(&coordinator).Error; err != nil {
		log.Printf("Error seeding coordinator: %v", err)
		return
	}

	supervisor := models.Agent{
		Name:         "Mariya",
		Role:         models.RoleSupervisor,
		PanchayathID: panchayath.ID,
		SuperiorID:   &coordinator.ID,
		Phone:        "9846054321",
		Ward:         "5",
	}
	if err := database.DB.Create(&supervisor).Error; err != nil {
		log.Printf("Error seeding supervisor: %v", err)
		return
	}

	groupLeader := models.Agent{
		Name:         "Bushra",
		Role:         models.RoleGroupLeader,
		PanchayathID: panchayath.ID,
		SuperiorID:   &supervisor.ID,
		Phone:        "9846098765",
		Ward:         "5",
	}
	if err := database.DB.Create(&groupLeader).Error; err != nil {
		log.Printf("Error seeding group leader: %v", err)
		return
	}

	pro := models.Agent{
		Name:         "Anu",
		Role:         models.RolePro,
		PanchayathID: panchayath.ID,
		SuperiorID:   &groupLeader.ID,
		Phone:        "9846011111",
		Ward:         "7",
	}
	if err := database.DB.Create(&pro).Error; err != nil {
		log.Printf("Error seeding pro: %v", err)
		return
	}

	log.Println("Agents seeded successfully")
}
