package services

import (
	"time"

	"lottosettle/domain/entities"

	"github.com/shopspring/decimal"
)

func pct(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// newTestSettings builds a snapshot with a full rate table and the last-day window at 18:30 Bangkok time
func newTestSettings(opts ...func(*entities.GameSettings)) *entities.GameSettings {
	rates := entities.RateTable{}
	for _, st := range entities.AllSubTypes() {
		rates[st] = entities.Rate{
			SubType:          st,
			StandardDiscount: pct("10"),
			SpecialDiscount:  pct("25"),
			LastDayDiscount:  pct("15"),
			PayoutPercent:    pct("9000"),
		}
	}
	rates[entities.SubTypeThreeUpStraight] = entities.Rate{
		SubType:          entities.SubTypeThreeUpStraight,
		StandardDiscount: pct("20"),
		SpecialDiscount:  pct("30"),
		LastDayDiscount:  pct("27.5"),
		PayoutPercent:    pct("55000"),
	}

	settings := &entities.GameSettings{
		GameType:               TestGameType,
		Rates:                  rates,
		LastDayDiscountEnabled: true,
		LastDayCutoffHour:      18,
		LastDayCutoffMinute:    30,
		TimeZone:               "Asia/Bangkok",
		WithdrawalFeePercent:   pct("2"),
		BonusRules: []entities.BonusRule{
			{ID: 1, Kind: entities.BonusKindRecharge, TargetValue: pct("500"), BonusValue: pct("50")},
			{ID: 2, Kind: entities.BonusKindRecharge, TargetValue: pct("1000"), BonusValue: pct("120")},
			{ID: 3, Kind: entities.BonusKindReferral, TargetValue: pct("3"), BonusValue: pct("30")},
			{ID: 4, Kind: entities.BonusKindWager, TargetValue: pct("1000"), BonusValue: pct("25")},
		},
		LoadedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(settings)
	}
	return settings
}

func newTestAccount(id int64, balance string, opts ...func(*entities.Account)) *entities.Account {
	account := &entities.Account{
		ID:              id,
		Username:        "player",
		Role:            entities.RoleCustomer,
		AvailableAmount: decimal.RequireFromString(balance),
		Bank: entities.BankDetails{
			BankName:    "KBank",
			AccountNo:   "0123456789",
			AccountName: "Somchai P.",
		},
		CreatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(account)
	}
	return account
}

func newTestRequest(kind entities.RequestKind, amount string, opts ...func(*entities.FinancialRequest)) *entities.FinancialRequest {
	req := &entities.FinancialRequest{
		ID:              TestRequestID,
		Kind:            kind,
		AccountID:       TestCustomerID,
		Amount:          decimal.RequireFromString(amount),
		Fee:             decimal.Zero,
		ProcessedAmount: decimal.RequireFromString(amount),
		Method:          "bank transfer",
		Status:          entities.RequestStatusPending,
		CreatedAt:       time.Now(),
	}
	for _, opt := range opts {
		opt(req)
	}
	return req
}

// lastBettingDay is 2024-08-16, a date with no zone as the database returns it
var lastBettingDay = time.Date(2024, 8, 16, 0, 0, 0, 0, time.UTC)

func newTestDraw(opts ...func(*entities.Draw)) *entities.Draw {
	draw := &entities.Draw{
		ID:             TestDrawID,
		GameType:       TestGameType,
		DrawNumber:     TestDrawNumber,
		LastBettingDay: lastBettingDay,
		CreatedAt:      time.Now(),
	}
	for _, opt := range opts {
		opt(draw)
	}
	return draw
}

// publishedDraw returns a draw carrying the 584213 / 47 result
func publishedDraw() *entities.Draw {
	derived, err := DeriveResult("584213", "47")
	if err != nil {
		panic(err)
	}
	published := time.Now()
	return newTestDraw(func(d *entities.Draw) {
		d.StraightResult = "584213"
		d.SecondaryResult = "47"
		d.Derived = derived
		d.PublishedAt = &published
	})
}
