// Package validator проверяет введённые пользователем данные.
package validator

import (
	"strings"

	"github.com/t1ery/AutoClubBot/internal/domain"
)

const (
	plateMinLen = 4
	plateMaxLen = 12
)

// Кириллические буквы, допустимые на российских номерах, и их
// латинские двойники. Пользователи набирают номер как придётся.
var cyrillicPlate = strings.NewReplacer(
	"А", "A", "В", "B", "Е", "E", "К", "K", "М", "M", "Н", "H",
	"О", "O", "Р", "P", "С", "C", "Т", "T", "У", "Y", "Х", "X",
)

// ValidatePlate нормализует и проверяет гос. номер. Нормализация:
// обрезка пробелов, верхний регистр, транслитерация кириллицы.
// Повторная проверка нормализованного номера дает тот же результат.
func ValidatePlate(raw string) (string, error) {
	plate := strings.ToUpper(strings.TrimSpace(raw))
	plate = cyrillicPlate.Replace(plate)

	if plate == "" {
		return "", domain.NewValidationError("reg_number", "номер пустой")
	}
	if len(plate) < plateMinLen || len(plate) > plateMaxLen {
		return "", domain.NewValidationError("reg_number", "длина номера должна быть от 4 до 12 символов")
	}
	for _, r := range plate {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return "", domain.NewValidationError("reg_number", "допустимы только буквы и цифры")
		}
	}
	return plate, nil
}
