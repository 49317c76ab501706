package apns_test

import (
	"log"

	"github.com/xyzrd/apns"
)

func Example() {
	cert, err := apns.LoadCertificate("cert.p12", "xopen123")
	if err != nil {
		log.Fatalln("Error loading certificate:", err)
	}
	client, err := apns.NewClient(&apns.Config{
		Protocol:    apns.Binary,
		Certificate: cert,
		Logger:      apns.ConsoleLogger(),
	})
	if err != nil {
		log.Fatalln("Error:", err)
	}
	defer client.Close()

	payload := &apns.Payload{Alert: "Hello!", AutoAdjust: true}
	payload.SetBadge(1)
	ntf, err := apns.NewNotification(
		`883982D57CDC4138D71E16B5ACBCB5DEBE3E625AFCEEE809A0F32895D2EA9D51`,
		payload)
	if err != nil {
		log.Fatalln("Error:", err)
	}
	results, err := client.Send(ntf)
	if err != nil {
		log.Fatalln("Error push:", err)
	}
	for id, result := range results {
		if result.Err != nil {
			log.Println("Failed:", id, result.Err)
		} else {
			log.Println("Sent:", id)
		}
	}
}
