package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestInvestmentFlow_FullLifecycle(t *testing.T) {
	app := setupApp(t)

	// A fund manager creates a fund
	managerID, _ := app.registerActiveUser(t, "manager@test.com", "Password1!")
	app.grantGroup(t, managerID, "fund_manager")
	managerToken, _ := app.loginUser(t, "manager@test.com", "Password1!")

	rec := app.request("POST", "/api/v1/funds",
		`{"name":"Naira Money Market","fund_type":"MONEY_MARKET","minimum_investment":1000000,"risk_level":"LOW"}`,
		managerToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("fund creation failed: %d %s", rec.Code, rec.Body.String())
	}
	fund := parseJSON(t, rec)
	fundID := fund["id"].(string)
	if fund["currency"] != "NGN" {
		t.Errorf("expected default currency NGN, got %v", fund["currency"])
	}
	if fund["nav_per_unit"] != "1" {
		t.Errorf("expected initial NAV of 1, got %v", fund["nav_per_unit"])
	}

	// An investor purchases units
	_, investorToken := app.registerActiveUser(t, "investor@test.com", "Password1!")

	body := fmt.Sprintf(`{"fund_id":%q,"amount":2000000,"payment_method":"BANK_TRANSFER"}`, fundID)
	rec = app.request("POST", "/api/v1/investments", body, investorToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("purchase failed: %d %s", rec.Code, rec.Body.String())
	}
	investment := parseJSON(t, rec)
	investmentID := investment["id"].(string)
	if investment["units"] != "2000000" {
		t.Errorf("expected 2000000 units at NAV 1, got %v", investment["units"])
	}
	if investment["status"] != "ACTIVE" {
		t.Errorf("expected ACTIVE investment, got %v", investment["status"])
	}

	// The fund aggregates reflect the purchase
	rec = app.request("GET", "/api/v1/funds/"+fundID, "", investorToken)
	fund = parseJSON(t, rec)
	if fund["total_value"].(float64) != 2000000 {
		t.Errorf("expected fund total_value 2000000, got %v", fund["total_value"])
	}

	// The purchase produced a completed transaction
	rec = app.request("GET", "/api/v1/transactions", "", investorToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("transaction listing failed: %d %s", rec.Code, rec.Body.String())
	}
	txns := parseJSON(t, rec)
	txnData := txns["data"].([]interface{})
	if len(txnData) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txnData))
	}
	txn := txnData[0].(map[string]interface{})
	if txn["type"] != "INVESTMENT" || txn["status"] != "COMPLETED" {
		t.Errorf("expected completed INVESTMENT transaction, got %v/%v", txn["type"], txn["status"])
	}

	// The investor redeems the holding
	rec = app.request("POST", "/api/v1/investments/"+investmentID+"/redeem", "", investorToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("redemption failed: %d %s", rec.Code, rec.Body.String())
	}
	redeemed := parseJSON(t, rec)
	if redeemed["status"] != "REDEEMED" {
		t.Errorf("expected REDEEMED status, got %v", redeemed["status"])
	}

	// Redeeming again is rejected
	rec = app.request("POST", "/api/v1/investments/"+investmentID+"/redeem", "", investorToken)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for double redemption, got %d: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "ALREADY_REDEEMED" {
		t.Errorf("expected ALREADY_REDEEMED, got %v", code)
	}
}

func TestInvestmentFlow_BelowMinimumRejected(t *testing.T) {
	app := setupApp(t)

	managerID, _ := app.registerActiveUser(t, "minmanager@test.com", "Password1!")
	app.grantGroup(t, managerID, "fund_manager")
	managerToken, _ := app.loginUser(t, "minmanager@test.com", "Password1!")

	rec := app.request("POST", "/api/v1/funds",
		`{"name":"High Floor Fund","fund_type":"EQUITY","minimum_investment":5000000}`, managerToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("fund creation failed: %d %s", rec.Code, rec.Body.String())
	}
	fundID := parseJSON(t, rec)["id"].(string)

	_, investorToken := app.registerActiveUser(t, "smallinvestor@test.com", "Password1!")

	body := fmt.Sprintf(`{"fund_id":%q,"amount":100000,"payment_method":"CARD"}`, fundID)
	rec = app.request("POST", "/api/v1/investments", body, investorToken)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 below minimum, got %d: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "BELOW_MINIMUM_INVESTMENT" {
		t.Errorf("expected BELOW_MINIMUM_INVESTMENT, got %v", code)
	}
}

func TestInvestmentFlow_InvestorCannotCreateFund(t *testing.T) {
	app := setupApp(t)

	_, investorToken := app.registerActiveUser(t, "nofund@test.com", "Password1!")

	rec := app.request("POST", "/api/v1/funds",
		`{"name":"Rogue Fund","fund_type":"BOND","minimum_investment":1000000}`, investorToken)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for investor fund creation, got %d: %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec); code != "FORBIDDEN" {
		t.Errorf("expected FORBIDDEN, got %v", code)
	}
}

func TestInvestmentFlow_HoldingsHiddenFromOtherInvestors(t *testing.T) {
	app := setupApp(t)

	managerID, _ := app.registerActiveUser(t, "visman@test.com", "Password1!")
	app.grantGroup(t, managerID, "fund_manager")
	managerToken, _ := app.loginUser(t, "visman@test.com", "Password1!")

	rec := app.request("POST", "/api/v1/funds",
		`{"name":"Visibility Fund","fund_type":"MIXED","minimum_investment":1000000}`, managerToken)
	fundID := parseJSON(t, rec)["id"].(string)

	_, ownerToken := app.registerActiveUser(t, "visowner@test.com", "Password1!")
	body := fmt.Sprintf(`{"fund_id":%q,"amount":1500000,"payment_method":"WALLET"}`, fundID)
	rec = app.request("POST", "/api/v1/investments", body, ownerToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("purchase failed: %d %s", rec.Code, rec.Body.String())
	}
	investmentID := parseJSON(t, rec)["id"].(string)

	// The owner and the fund manager can read the holding
	for _, token := range []string{ownerToken, managerToken} {
		rec = app.request("GET", "/api/v1/investments/"+investmentID, "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 reading holding, got %d: %s", rec.Code, rec.Body.String())
		}
	}

	// Another investor cannot
	_, strangerToken := app.registerActiveUser(t, "visstranger@test.com", "Password1!")
	rec = app.request("GET", "/api/v1/investments/"+investmentID, "", strangerToken)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for stranger, got %d: %s", rec.Code, rec.Body.String())
	}
}
