package db

import "gorm.io/gorm"

type Repositories struct {
	Users    *UserRepository
	Groups   *GroupRepository
	Goals    *GoalRepository
	Progress *ProgressRepository
	Activity *ActivityRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:    NewUserRepository(database),
		Groups:   NewGroupRepository(database),
		Goals:    NewGoalRepository(database),
		Progress: NewProgressRepository(database),
		Activity: NewActivityRepository(database),
	}
}
