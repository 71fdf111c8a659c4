package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/fieldops_payroll/internal/apperrors"
	"github.com/SscSPs/fieldops_payroll/internal/core/domain"
	"github.com/SscSPs/fieldops_payroll/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRateResolver_PicksLatestEffectiveRate(t *testing.T) {
	repo := new(MockRateRepository)
	jan := date(2024, time.January, 1)
	mar := date(2024, time.March, 1)
	feb15 := date(2024, time.February, 15)
	apr1 := date(2024, time.April, 1)

	repo.On("FindEffectiveRate", mock.Anything, "emp-1", feb15).
		Return(&domain.EmployeeRate{RateID: "r-jan", EmployeeID: "emp-1", EffectiveDate: &jan, Kind: domain.RateHourly, Amount: dec("20")}, nil).Once()
	repo.On("FindEffectiveRate", mock.Anything, "emp-1", apr1).
		Return(&domain.EmployeeRate{RateID: "r-mar", EmployeeID: "emp-1", EffectiveDate: &mar, Kind: domain.RateHourly, Amount: dec("22")}, nil).Once()

	resolver := services.NewRateResolver(repo)

	rate, err := resolver.Resolve(context.Background(), "emp-1", feb15)
	require.NoError(t, err)
	assert.True(t, rate.Amount.Equal(dec("20")))
	assert.Equal(t, domain.RateHourly, rate.Kind)

	rate, err = resolver.Resolve(context.Background(), "emp-1", apr1)
	require.NoError(t, err)
	assert.True(t, rate.Amount.Equal(dec("22")))

	repo.AssertExpectations(t)
}

func TestRateResolver_CachesWithinTheSameSecond(t *testing.T) {
	repo := new(MockRateRepository)
	at := time.Date(2024, time.May, 2, 10, 30, 15, 0, time.UTC)

	repo.On("FindEffectiveRate", mock.Anything, "emp-1", at).
		Return(&domain.EmployeeRate{RateID: "r-1", Kind: domain.RateHourly, Amount: dec("18.50")}, nil).Once()

	resolver := services.NewRateResolver(repo)
	first, err := resolver.Resolve(context.Background(), "emp-1", at)
	require.NoError(t, err)
	second, err := resolver.Resolve(context.Background(), "emp-1", at.Add(400*time.Millisecond))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	repo.AssertNumberOfCalls(t, "FindEffectiveRate", 1)
}

func TestRateResolver_CacheIsPerResolver(t *testing.T) {
	repo := new(MockRateRepository)
	at := date(2024, time.June, 1)

	repo.On("FindEffectiveRate", mock.Anything, "emp-1", at).
		Return(&domain.EmployeeRate{RateID: "r-1", Kind: domain.RateHourly, Amount: dec("20")}, nil).Once()
	repo.On("FindEffectiveRate", mock.Anything, "emp-1", at).
		Return(&domain.EmployeeRate{RateID: "r-2", Kind: domain.RateHourly, Amount: dec("25")}, nil).Once()

	first, err := services.NewRateResolver(repo).Resolve(context.Background(), "emp-1", at)
	require.NoError(t, err)
	second, err := services.NewRateResolver(repo).Resolve(context.Background(), "emp-1", at)
	require.NoError(t, err)

	assert.True(t, first.Amount.Equal(dec("20")))
	assert.True(t, second.Amount.Equal(dec("25")))
	repo.AssertExpectations(t)
}

func TestRateResolver_FallsBackToLegacyRate(t *testing.T) {
	repo := new(MockRateRepository)
	at := date(2023, time.July, 1)

	repo.On("FindEffectiveRate", mock.Anything, "emp-2", at).Return(nil, apperrors.ErrNotFound).Once()
	repo.On("FindLegacyRate", mock.Anything, "emp-2", at).
		Return(&domain.EmployeeRate{RateID: "legacy", Amount: dec("15")}, nil).Once()

	rate, err := services.NewRateResolver(repo).Resolve(context.Background(), "emp-2", at)
	require.NoError(t, err)
	assert.False(t, rate.Missing())
	assert.Equal(t, domain.RateHourly, rate.Kind, "legacy rows without a kind are hourly")
	assert.True(t, rate.Amount.Equal(dec("15")))
	repo.AssertExpectations(t)
}

func TestRateResolver_NoRateIsNotAnError(t *testing.T) {
	repo := new(MockRateRepository)
	at := date(2022, time.January, 1)

	repo.On("FindEffectiveRate", mock.Anything, "emp-3", at).Return(nil, apperrors.NewNotFoundError("no rate")).Once()
	repo.On("FindLegacyRate", mock.Anything, "emp-3", at).Return(nil, apperrors.ErrNotFound).Once()

	rate, err := services.NewRateResolver(repo).Resolve(context.Background(), "emp-3", at)
	require.NoError(t, err)
	assert.True(t, rate.Missing())
	repo.AssertExpectations(t)
}

func TestRateResolver_StoreFailureIsReturned(t *testing.T) {
	repo := new(MockRateRepository)
	at := date(2024, time.January, 10)
	storeErr := errors.New("connection reset")

	repo.On("FindEffectiveRate", mock.Anything, "emp-1", at).Return(nil, storeErr).Once()

	_, err := services.NewRateResolver(repo).Resolve(context.Background(), "emp-1", at)
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	repo.AssertNotCalled(t, "FindLegacyRate", mock.Anything, mock.Anything, mock.Anything)
}

func TestRateResolver_EmptyEmployeeIsMissing(t *testing.T) {
	repo := new(MockRateRepository)

	rate, err := services.NewRateResolver(repo).Resolve(context.Background(), "", date(2024, time.January, 1))
	require.NoError(t, err)
	assert.True(t, rate.Missing())
	repo.AssertNotCalled(t, "FindEffectiveRate", mock.Anything, mock.Anything, mock.Anything)
}
