package ecpay

import (
	"errors"
	"testing"
)

const (
	testHashKey = "5294y06JbISpM5x9"
	testHashIV  = "v77hoKGq4kWxNNIS"
)

func TestCheckMacGenerateStoreListParams(t *testing.T) {
	mac := NewCheckMac(testHashKey, testHashIV)
	got := mac.Generate(map[string]string{
		"MerchantID": "2000132",
		"CvsType":    "UNIMART",
	})
	want := "B52D22D4A4E62880026291A6BC526BF8"
	if got != want {
		t.Fatalf("check mac want %s got %s", want, got)
	}
}

func TestCheckMacGenerateIsDeterministic(t *testing.T) {
	mac := NewCheckMac(testHashKey, testHashIV)
	params := map[string]string{
		"MerchantID": "2000132",
		"CvsType":    "FAMI",
		"Extra":      "門市選擇",
	}
	first := mac.Generate(params)
	second := mac.Generate(params)
	if first != second {
		t.Fatalf("same params produced different macs: %s vs %s", first, second)
	}
	if len(first) != 32 {
		t.Fatalf("mac length want 32 got %d", len(first))
	}
}

func TestCheckMacGenerateExcludesOwnField(t *testing.T) {
	mac := NewCheckMac(testHashKey, testHashIV)
	params := map[string]string{
		"MerchantID": "2000132",
		"CvsType":    "UNIMART",
	}
	withMac := map[string]string{
		"MerchantID":    "2000132",
		"CvsType":       "UNIMART",
		CheckMacValueKey: "GARBAGE",
	}
	if mac.Generate(params) != mac.Generate(withMac) {
		t.Fatal("CheckMacValue field must not participate in signing")
	}
}

func TestCheckMacGenerateSecretSensitivity(t *testing.T) {
	params := map[string]string{
		"MerchantID": "2000132",
		"CvsType":    "UNIMART",
	}
	base := NewCheckMac(testHashKey, testHashIV).Generate(params)
	otherKey := NewCheckMac("another-hash-key", testHashIV).Generate(params)
	otherIV := NewCheckMac(testHashKey, "another-hash-iv").Generate(params)
	if base == otherKey {
		t.Fatal("changing hash key must change the mac")
	}
	if base == otherIV {
		t.Fatal("changing hash iv must change the mac")
	}
}

func TestDotNetURLEncode(t *testing.T) {
	got := dotNetURLEncode("a b-c_d.e!f~g*h'i(j)k/中")
	want := "a+b-c_d.e!f~g*h'i(j)k%2F%E4%B8%AD"
	if got != want {
		t.Fatalf("encode want %s got %s", want, got)
	}
}

func TestCheckMacVerifyCallbackForm(t *testing.T) {
	mac := NewCheckMac(testHashKey, testHashIV)
	form := map[string][]string{
		"MerchantID":      {"2000132"},
		"MerchantTradeNo": {"mfn1a2b3c4d5e6f7g8h9"},
		"RtnCode":         {"1"},
		"RtnMsg":          {"交易成功"},
		"TradeNo":         {"2108150000001234"},
		"TradeAmt":        {"1200"},
		"PaymentDate":     {"2025/08/01 12:35:10"},
		"PaymentType":     {"Credit_CreditCard"},
		"SimulatePaid":    {"0"},
		CheckMacValueKey:  {"AAD406D6C4D96B25584CD80744163C3E"},
	}
	if err := mac.Verify(form); err != nil {
		t.Fatalf("verify valid form failed: %v", err)
	}

	form["TradeAmt"] = []string{"9999"}
	if err := mac.Verify(form); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("tampered form want ErrSignatureInvalid got %v", err)
	}
}

func TestCheckMacVerifyMissingMac(t *testing.T) {
	mac := NewCheckMac(testHashKey, testHashIV)
	err := mac.Verify(map[string][]string{"MerchantID": {"2000132"}})
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("missing mac want ErrSignatureInvalid got %v", err)
	}
}
