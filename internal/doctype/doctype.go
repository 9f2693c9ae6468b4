// Package doctype описывает закрытый набор типов документов сделки.
//
// В БД тип хранится строковым токеном ("DocumentVendor", "DocumentCustomerAct3"
// и т.д.), логика же работает с типизированными значениями, чтобы исключить
// сравнение сырых строк.
package doctype

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Side — сторона сделки, которой принадлежит документ.
type Side int

const (
	Vendor Side = iota
	Customer
)

// MaxActNumber — актов на сторону не больше десяти.
const MaxActNumber = 10

// ErrUnknownType возвращается при токене вне закрытого набора типов.
var ErrUnknownType = errors.New("неизвестный тип документа")

func (s Side) String() string {
	if s == Vendor {
		return "vendor"
	}
	return "customer"
}

// ParseSide разбирает сторону сделки из строки запроса.
func ParseSide(value string) (Side, error) {
	switch strings.ToLower(value) {
	case "vendor":
		return Vendor, nil
	case "customer":
		return Customer, nil
	}
	return 0, fmt.Errorf("неизвестная сторона сделки %q", value)
}

// Type — тип документа: основной договор стороны или её нумерованный акт.
type Type struct {
	side Side
	act  int // 0 — основной договор, 1..10 — номер акта
}

// Contract возвращает тип основного договора стороны.
func Contract(side Side) Type {
	return Type{side: side}
}

// Act возвращает тип акта стороны с номером number (1..10).
func Act(side Side, number int) (Type, error) {
	if number < 1 || number > MaxActNumber {
		return Type{}, fmt.Errorf("%w: номер акта %d вне диапазона 1..%d", ErrUnknownType, number, MaxActNumber)
	}
	return Type{side: side, act: number}, nil
}

// Parse разбирает строковый токен типа документа.
func Parse(value string) (Type, error) {
	var side Side
	var rest string

	switch {
	case strings.HasPrefix(value, "DocumentVendor"):
		side = Vendor
		rest = strings.TrimPrefix(value, "DocumentVendor")
	case strings.HasPrefix(value, "DocumentCustomer"):
		side = Customer
		rest = strings.TrimPrefix(value, "DocumentCustomer")
	default:
		return Type{}, fmt.Errorf("%w: %q", ErrUnknownType, value)
	}

	if rest == "" {
		return Contract(side), nil
	}

	numberPart := strings.TrimPrefix(rest, "Act")
	if numberPart == rest {
		return Type{}, fmt.Errorf("%w: %q", ErrUnknownType, value)
	}

	number, err := strconv.Atoi(numberPart)
	if err != nil {
		return Type{}, fmt.Errorf("%w: %q", ErrUnknownType, value)
	}

	return Act(side, number)
}

// Side возвращает сторону сделки.
func (t Type) Side() Side { return t.side }

// IsAct сообщает, является ли тип актом этапа.
func (t Type) IsAct() bool { return t.act > 0 }

// ActNumber возвращает номер акта, 0 для основного договора.
func (t Type) ActNumber() int { return t.act }

// String возвращает точный токен для хранения в БД.
func (t Type) String() string {
	prefix := "DocumentVendor"
	if t.side == Customer {
		prefix = "DocumentCustomer"
	}
	if t.act == 0 {
		return prefix
	}
	return prefix + "Act" + strconv.Itoa(t.act)
}

// ActTokens возвращает токены всех десяти актов стороны — для выборок по списку.
func ActTokens(side Side) []string {
	tokens := make([]string, 0, MaxActNumber)
	for n := 1; n <= MaxActNumber; n++ {
		t, _ := Act(side, n)
		tokens = append(tokens, t.String())
	}
	return tokens
}

// ContractTokens возвращает токены основных договоров обеих сторон.
func ContractTokens() []string {
	return []string{Contract(Vendor).String(), Contract(Customer).String()}
}

// IterationActTokens возвращает токены актов обеих сторон для одного этапа.
// Используется каскадом оплаты: платёж этапа закрывает оба акта.
func IterationActTokens(iteration int) ([]string, error) {
	vendorAct, err := Act(Vendor, iteration)
	if err != nil {
		return nil, err
	}
	customerAct, _ := Act(Customer, iteration)
	return []string{vendorAct.String(), customerAct.String()}, nil
}
