// Send Apple Push notification
//
//	./push [-params] <token> [<token2> [...]]
//	  -t    use development service
//	  -b badge
//	        badge number
//	  -c certificate
//	        push certificate (default "cert.p12")
//	  -p password
//	        certificate password
//	  -a text
//	        message text (default "Hello!")
//	  -i topic
//	        topic id
//	  -2    use the HTTP/2 provider API instead of the binary protocol
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/xyzrd/apns"
)

func main() {
	certFileName := flag.String("c", "cert.p12", "push `certificate`")
	password := flag.String("p", "", "certificate `password`")
	development := flag.Bool("t", false, "use sandbox service")
	alert := flag.String("a", "Hello!", "message `text`")
	badge := flag.Int("b", 0, "`badge` number")
	topic := flag.String("i", "", "`topic` id")
	http2 := flag.Bool("2", false, "use HTTP/2 provider API")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, "Send Apple Push notification\n")
		fmt.Fprintf(os.Stderr, "%s [-params] <token> [<token2> [...]]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	log.SetFlags(0)

	if flag.NArg() < 1 {
		log.Fatalln("Error: no tokens")
	}
	cert, err := apns.LoadCertificate(*certFileName, *password)
	if err != nil {
		log.Fatalln("Error loading certificate:", err)
	}
	config := &apns.Config{
		Protocol:    apns.Binary,
		Certificate: cert,
		Logger:      apns.ConsoleLogger(),
	}
	if *http2 {
		config.Protocol = apns.HTTP2
	}
	if *development {
		config.Environment = apns.Sandbox
	}
	client, err := apns.NewClient(config)
	if err != nil {
		log.Fatalln("Error:", err)
	}
	defer client.Close()

	payload := &apns.Payload{Alert: *alert}
	if *badge > 0 {
		payload.SetBadge(*badge)
	}
	notifications := make([]*apns.Notification, 0, flag.NArg())
	for _, token := range flag.Args() {
		ntf, err := apns.NewNotification(token, payload)
		if err != nil {
			log.Fatalln("Bad token:", token)
		}
		ntf.Topic = *topic
		ntf.Priority = apns.PriorityHigh
		notifications = append(notifications, ntf)
	}
	results, err := client.Send(notifications...)
	if err != nil {
		log.Fatalln("Error:", err)
	}
	for id, result := range results {
		if result.Err != nil {
			log.Println("Failed:", id, result.Err)
		} else {
			log.Println("Sent:", id)
		}
	}
	log.Println("Complete!")
}
