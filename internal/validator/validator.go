package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"achievo/internal/models"
)

// Register installs the custom validation tags used by request DTOs.
func Register() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterValidation("goal_priority", validGoalPriority)
	v.RegisterValidation("habit_frequency", validHabitFrequency)
	v.RegisterValidation("bill_type", validBillType)
	v.RegisterValidation("theme", validTheme)
}

func validGoalPriority(fl validator.FieldLevel) bool {
	switch models.GoalPriority(fl.Field().String()) {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
		return true
	}
	return false
}

func validHabitFrequency(fl validator.FieldLevel) bool {
	switch models.HabitFrequency(fl.Field().String()) {
	case models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyMonthly:
		return true
	}
	return false
}

func validBillType(fl validator.FieldLevel) bool {
	switch models.BillType(fl.Field().String()) {
	case models.BillTypeMilk, models.BillTypeWater, models.BillTypeElectricity, models.BillTypeGas, models.BillTypeInternet:
		return true
	}
	return false
}

func validTheme(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "light", "dark", "auto":
		return true
	}
	return false
}
