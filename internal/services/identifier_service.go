package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/constants"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/repositories"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/utils"
)

// IdentifierService hands out the human-readable codes shown to clients.
// Uniqueness is guaranteed by the store; callers retry on utils.ErrCodeTaken.
type IdentifierService interface {
	NextPropertyCode(ctx context.Context) (string, error)
	NextBookingCode(ctx context.Context) (string, error)
}

type identifierService struct {
	propertyRepo repositories.PropertyRepository
	bookingRepo  repositories.BookingRepository
}

func NewIdentifierService(
	propertyRepo repositories.PropertyRepository,
	bookingRepo repositories.BookingRepository,
) IdentifierService {
	return &identifierService{propertyRepo: propertyRepo, bookingRepo: bookingRepo}
}

func (s *identifierService) NextPropertyCode(ctx context.Context) (string, error) {
	last, err := s.propertyRepo.MaxPropertyCode(ctx)
	if err != nil {
		return "", fmt.Errorf("read max property code: %w", err)
	}
	return SuccessorPropertyCode(last)
}

func (s *identifierService) NextBookingCode(ctx context.Context) (string, error) {
	last, err := s.bookingRepo.MaxBookingCode(ctx)
	if err != nil {
		return "", fmt.Errorf("read max booking code: %w", err)
	}
	return SuccessorBookingCode(last)
}

// SuccessorPropertyCode returns the code following last ("" means none yet).
// Codes are four letters A-Z and four digits. The digits count up to 9999;
// past that the letters advance like an odometer and the digits restart at
// 0001.
func SuccessorPropertyCode(last string) (string, error) {
	if last == "" {
		return constants.FirstPropertyCode, nil
	}
	if !isPropertyCode(last) {
		return "", fmt.Errorf("%q: %w", last, utils.ErrMalformedCode)
	}

	letters := []byte(last[:4])
	n, _ := strconv.Atoi(last[4:])
	if n < 9999 {
		return fmt.Sprintf("%s%04d", letters, n+1), nil
	}

	for i := len(letters) - 1; i >= 0; i-- {
		if letters[i] != 'Z' {
			letters[i]++
			return string(letters) + "0001", nil
		}
		letters[i] = 'A'
	}
	return "", utils.ErrPropertyCodeExhausted
}

// SuccessorBookingCode returns BK followed by the next eight-digit counter.
func SuccessorBookingCode(last string) (string, error) {
	if last == "" {
		return constants.BookingCodePrefix + "00000001", nil
	}
	if !isBookingCode(last) {
		return "", fmt.Errorf("%q: %w", last, utils.ErrMalformedCode)
	}
	n, _ := strconv.Atoi(last[len(constants.BookingCodePrefix):])
	if n >= 99999999 {
		return "", utils.ErrBookingCodeExhausted
	}
	return fmt.Sprintf("%s%08d", constants.BookingCodePrefix, n+1), nil
}

func isPropertyCode(s string) bool {
	if len(s) != 8 {
		return false
	}
	for i := 0; i < 4; i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return allDigits(s[4:])
}

func isBookingCode(s string) bool {
	p := constants.BookingCodePrefix
	return len(s) == len(p)+8 && s[:len(p)] == p && allDigits(s[len(p):])
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
