package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNormalizeShopDomain covers configured domains, which are folded before validation.
func TestNormalizeShopDomain(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "Valid", input: "shop-uk.myshopify.com", want: "shop-uk.myshopify.com"},
		{name: "Digits", input: "store123.myshopify.com", want: "store123.myshopify.com"},
		{name: "UpperCaseAndSpaces", input: "  Shop-UK.MyShopify.com ", want: "shop-uk.myshopify.com"},
		{name: "Empty", input: "", wantErr: true},
		{name: "CustomDomain", input: "shop.example.com", wantErr: true},
		{name: "Subdomain", input: "a.b.myshopify.com", wantErr: true},
		{name: "Underscore", input: "shop_uk.myshopify.com", wantErr: true},
		{name: "LeadingHyphen", input: "-shop.myshopify.com", wantErr: true},
		{name: "Scheme", input: "https://shop-uk.myshopify.com", wantErr: true},
		{name: "Suffix", input: "shop-uk.myshopify.com.evil.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeShopDomain(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidShopDomain)
				assert.Empty(t, got)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateShopDomain(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "Valid", input: "shop-uk.myshopify.com"},
		{name: "Digits", input: "store123.myshopify.com"},
		{name: "UpperCase", input: "SHOP-UK.MYSHOPIFY.COM", wantErr: true},
		{name: "MixedCase", input: "Shop-UK.myshopify.com", wantErr: true},
		{name: "Spaces", input: " shop-uk.myshopify.com ", wantErr: true},
		{name: "Empty", input: "", wantErr: true},
		{name: "CustomDomain", input: "shop.example.com", wantErr: true},
		{name: "Subdomain", input: "a.b.myshopify.com", wantErr: true},
		{name: "Underscore", input: "shop_uk.myshopify.com", wantErr: true},
		{name: "LeadingHyphen", input: "-shop.myshopify.com", wantErr: true},
		{name: "Scheme", input: "https://shop-uk.myshopify.com", wantErr: true},
		{name: "Suffix", input: "shop-uk.myshopify.com.evil.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateShopDomain(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidShopDomain)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidCode(t *testing.T) {
	assert.True(t, ValidCode(CodeUK))
	assert.True(t, ValidCode(CodeAU))
	assert.False(t, ValidCode("FR"))
	assert.False(t, ValidCode(""))
}

func TestRegion_HasSecret(t *testing.T) {
	assert.True(t, Region{FlowSecret: "S"}.HasSecret())
	assert.False(t, Region{}.HasSecret())
}
