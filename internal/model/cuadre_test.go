package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestArqueoCaja_EfectivoBruto(t *testing.T) {
	vacio := ArqueoCaja{}
	assert.True(t, vacio.EfectivoBruto().IsZero())

	// 2×200 + 1×100 + 3×20 + 4×1 = 564; la apertura no se resta aquí.
	a := ArqueoCaja{Q200: 2, Q100: 1, Q20: 3, Q1: 4, Apertura: decimal.NewFromInt(300)}
	assert.True(t, a.EfectivoBruto().Equal(decimal.NewFromInt(564)))
}

func TestExtrasSucursal_Normalizar(t *testing.T) {
	e := ExtrasSucursal{AmericanExpress: true}
	e.Normalizar()
	assert.NotNil(t, e.AmericanExpressPrecios)

	// Sin amex activo no se materializa el mapa.
	sinAmex := ExtrasSucursal{}
	sinAmex.Normalizar()
	assert.Nil(t, sinAmex.AmericanExpressPrecios)
}
