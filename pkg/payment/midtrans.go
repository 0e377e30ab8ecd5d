package payment

import (
	"crypto/sha512"
	"crypto/subtle"
	"fmt"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
)

// CheckoutSession is the hosted payment page handed back to the client.
type CheckoutSession struct {
	Token       string
	RedirectURL string
}

// CustomerDetails carries the payer identity forwarded to the gateway.
type CustomerDetails struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// TransactionStatus is the gateway-side view of a transaction.
type TransactionStatus struct {
	OrderId           string
	TransactionId     string
	TransactionStatus string
	PaymentType       string
	FraudStatus       string
	GrossAmount       string
}

// Gateway abstracts the payment provider so services can run against a fake.
type Gateway interface {
	CreateCheckout(orderId string, grossAmount int64, itemId, itemName string, customer CustomerDetails) (*CheckoutSession, error)
	GetTransactionStatus(orderId string) (*TransactionStatus, error)
	VerifySignature(orderId, statusCode, grossAmount, signatureKey string) bool
}

type MidtransGateway struct {
	snapClient snap.Client
	coreClient coreapi.Client
	serverKey  string
	finishURL  string
}

func NewMidtransGateway(serverKey string, isProduction bool, finishURL string) *MidtransGateway {
	env := midtrans.Sandbox
	if isProduction {
		env = midtrans.Production
	}

	g := &MidtransGateway{
		serverKey: serverKey,
		finishURL: finishURL,
	}
	g.snapClient.New(serverKey, env)
	g.coreClient.New(serverKey, env)
	return g
}

func (g *MidtransGateway) CreateCheckout(orderId string, grossAmount int64, itemId, itemName string, customer CustomerDetails) (*CheckoutSession, error) {
	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderId,
			GrossAmt: grossAmount,
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		Callbacks: &snap.Callbacks{
			Finish: g.finishURL,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: customer.FirstName,
			LName: customer.LastName,
			Email: customer.Email,
			Phone: customer.Phone,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    itemId,
				Price: grossAmount,
				Qty:   1,
				Name:  itemName,
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}

	snapResp, midErr := g.snapClient.CreateTransaction(snapReq)
	if midErr != nil {
		return nil, fmt.Errorf("midtrans error: %v", midErr.GetMessage())
	}

	return &CheckoutSession{
		Token:       snapResp.Token,
		RedirectURL: snapResp.RedirectURL,
	}, nil
}

func (g *MidtransGateway) GetTransactionStatus(orderId string) (*TransactionStatus, error) {
	resp, midErr := g.coreClient.CheckTransaction(orderId)
	if midErr != nil {
		return nil, fmt.Errorf("midtrans error: %v", midErr.GetMessage())
	}

	return &TransactionStatus{
		OrderId:           resp.OrderID,
		TransactionId:     resp.TransactionID,
		TransactionStatus: resp.TransactionStatus,
		PaymentType:       resp.PaymentType,
		FraudStatus:       resp.FraudStatus,
		GrossAmount:       resp.GrossAmount,
	}, nil
}

// VerifySignature checks the webhook signature:
// SHA512(order_id + status_code + gross_amount + server_key).
func (g *MidtransGateway) VerifySignature(orderId, statusCode, grossAmount, signatureKey string) bool {
	expected := fmt.Sprintf("%x", sha512.Sum512([]byte(orderId+statusCode+grossAmount+g.serverKey)))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signatureKey)) == 1
}
