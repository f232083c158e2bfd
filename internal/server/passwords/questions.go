package passwords

var SecurityQuestions = []string{
	"What is the name of your first pet?",
	"What is your mother's maiden name?",
	"What was the name of your elementary school?",
	"What was the make of your first car?",
	"In what city were you born?",
}

func IsSecurityQuestion(q string) bool {
	for _, s := range SecurityQuestions {
		if s == q {
			return true
		}
	}
	return false
}
