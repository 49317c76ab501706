// Print device tokens reported by the APNS feedback service.
//
//	./feedback [-params]
//	  -t    use development service
//	  -c certificate
//	        push certificate (default "cert.p12")
//	  -p password
//	        certificate password
package main

import (
	"flag"
	"log"

	"github.com/xyzrd/apns"
)

func main() {
	certFileName := flag.String("c", "cert.p12", "push `certificate`")
	password := flag.String("p", "", "certificate `password`")
	development := flag.Bool("t", false, "use sandbox service")
	flag.Parse()
	log.SetFlags(0)

	cert, err := apns.LoadCertificate(*certFileName, *password)
	if err != nil {
		log.Fatalln("Error loading certificate:", err)
	}
	config := &apns.Config{Certificate: cert}
	if *development {
		config.Environment = apns.Sandbox
	}
	responses, err := apns.Feedback(config)
	if err != nil {
		log.Fatalln("Feedback error:", err)
	}
	for _, response := range responses {
		log.Println(response.Time().Format("2006-01-02 15:04:05"), response)
	}
	log.Println("Total:", len(responses))
}
