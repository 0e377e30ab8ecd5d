package service

import "errors"

var (
	ErrNotFound             = errors.New("resource not found")
	ErrPlanNotFound         = errors.New("plan not found")
	ErrSubscriptionNotFound = errors.New("no active subscription found")
	ErrInvalidSignature     = errors.New("invalid signature")
)
