package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/yourusername/career-suite/internal/config"
	"github.com/yourusername/career-suite/internal/domain/entity"
	"github.com/yourusername/career-suite/internal/generator"
	"github.com/yourusername/career-suite/internal/repository/consentfile"
	sqliteRepo "github.com/yourusername/career-suite/internal/repository/sqlite"
	"github.com/yourusername/career-suite/internal/service"
	"github.com/yourusername/career-suite/pkg/database"
)

// console связывает все сервисы с текстовым интерфейсом
type console struct {
	reader    *bufio.Reader
	quiz      *service.QuizService
	privacy   *service.PrivacyService
	screening *service.ScreeningService
	prep      *service.PrepService
	retention int
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Файл .env не найден, используются переменные окружения")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	db, err := openDatabase(cfg)
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	resultRepo := sqliteRepo.NewResultRepo(db)
	candidateRepo := sqliteRepo.NewCandidateRepo(db)
	prepRepo := sqliteRepo.NewPrepRepo(db)
	consentRepo := sqliteRepo.NewConsentRepo(db)
	accessLogRepo := sqliteRepo.NewAccessLogRepo(db)
	consentMirror := consentfile.NewStore(cfg.Privacy.ConsentFile)

	source := generator.NewGeminiClient(
		cfg.Generator.APIKey,
		cfg.Generator.Model,
		time.Duration(cfg.Generator.TimeoutSec)*time.Second,
	)

	dbPath := ""
	if cfg.Database.Driver == database.DriverSQLite {
		dbPath = cfg.Database.Path
	}

	app := &console{
		reader: bufio.NewReader(os.Stdin),
		quiz:   service.NewQuizService(resultRepo, source),
		privacy: service.NewPrivacyService(
			resultRepo, candidateRepo, prepRepo,
			consentRepo, accessLogRepo, consentMirror,
			cfg.Privacy.ExportDir, dbPath,
		),
		screening: service.NewScreeningService(candidateRepo, source),
		prep:      service.NewPrepService(prepRepo, source),
		retention: cfg.Privacy.RetentionDays,
	}

	app.ensureConsent()
	app.run()
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.Database.Driver {
	case database.DriverPostgres:
		return database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	default:
		return database.NewSQLiteDB(cfg.Database.Path)
	}
}

// ensureConsent показывает уведомление и запрашивает согласие на
// обработку данных при первом запуске
func (a *console) ensureConsent() {
	if a.privacy.CheckConsent(entity.ConsentDataCollection) {
		return
	}

	fmt.Println(strings.Repeat("=", 70))
	fmt.Println("PRIVACY NOTICE")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Println("This application collects and stores:")
	fmt.Println("  - Quiz performance data (scores, timestamps)")
	fmt.Println("  - Selected languages and difficulty levels")
	fmt.Println("  - Interview responses (for recruiter mode)")
	fmt.Println()
	fmt.Println("Your data is stored locally and fully under your control.")
	fmt.Println("You can export, delete or anonymize it at any time.")
	fmt.Println()

	answer := a.ask("Do you consent to data collection? (yes/no): ")
	if answer != "yes" && answer != "y" {
		fmt.Println("\nYou must consent to use this application.")
		os.Exit(0)
	}

	for _, consentType := range []string{
		entity.ConsentDataCollection,
		entity.ConsentAnalytics,
		entity.ConsentAIProcessing,
	} {
		if err := a.privacy.RecordConsent(consentType, true); err != nil {
			log.Printf("Failed to record consent: %v", err)
			os.Exit(1)
		}
	}
	fmt.Println("\nConsent recorded. Thank you!")
}

func (a *console) run() {
	a.printHeader()

	for {
		fmt.Println("\n" + strings.Repeat("-", 70))
		fmt.Println("MAIN MENU")
		fmt.Println(strings.Repeat("-", 70))
		fmt.Println("1. Study Roadmap")
		fmt.Println("2. Start New Quiz")
		fmt.Println("3. View Analytics")
		fmt.Println("4. Quiz History")
		fmt.Println("5. Practice Interview")
		fmt.Println("6. Privacy & Data")
		fmt.Println("7. Exit")

		switch a.ask("\nEnter your choice (1-7): ") {
		case "1":
			a.showRoadmap()
		case "2":
			a.runQuiz()
		case "3":
			a.showAnalytics()
		case "4":
			a.showHistory()
		case "5":
			a.runPractice()
		case "6":
			a.privacyMenu()
		case "7":
			fmt.Println("\nThank you for using PrepMaster! Good luck with your preparation!")
			return
		default:
			fmt.Println("\nInvalid choice. Please try again.")
		}
	}
}

func (a *console) printHeader() {
	fmt.Println(strings.Repeat("=", 70))
	fmt.Println("PREPMASTER - MCQ Quiz System")
	fmt.Println("Master Programming Languages with AI-Powered Questions")
	fmt.Println(strings.Repeat("=", 70))
}

func (a *console) ask(prompt string) string {
	fmt.Print(prompt)
	line, _ := a.reader.ReadString('\n')
	return strings.TrimSpace(line)
}

// pickFrom выводит нумерованный список и возвращает выбранный элемент
func (a *console) pickFrom(title string, items []string) (string, bool) {
	fmt.Println("\n" + title)
	fmt.Println(strings.Repeat("-", 70))
	for i, item := range items {
		fmt.Printf("%d. %s\n", i+1, item)
	}

	choice := a.ask(fmt.Sprintf("\nEnter choice (1-%d): ", len(items)))
	idx, err := strconv.Atoi(choice)
	if err != nil || idx < 1 || idx > len(items) {
		fmt.Println("\nInvalid selection!")
		return "", false
	}
	return items[idx-1], true
}

func (a *console) showRoadmap() {
	fmt.Println("\nSTUDY ROADMAP - Structured Preparation Plan")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Println("\n1. COMPUTER SCIENCE FUNDAMENTALS")
	fmt.Println("   - Arrays - Linear data structures, indexing, traversal")
	fmt.Println("   - Trees - Binary trees, BST, traversal algorithms")
	fmt.Println("   - Graphs - Representations, traversal, shortest paths")
	fmt.Println("   - Hash Maps - Hash functions, collision handling, applications")
	fmt.Println("\n2. ALGORITHMS")
	fmt.Println("   - Sorting - QuickSort, MergeSort, HeapSort, complexity analysis")
	fmt.Println("   - BFS/DFS - Breadth-first and depth-first search strategies")
	fmt.Println("   - Dynamic Programming - Memoization, tabulation, optimization")
	fmt.Println("\n3. SYSTEM DESIGN")
	fmt.Println("   - Scalability - Load balancing, caching, horizontal scaling")
	fmt.Println("   - DB Design - Schema design, normalization, indexing")
	fmt.Println("   - API Design - RESTful APIs, versioning, authentication")
	fmt.Println("\n4. BEHAVIORAL INTERVIEWS")
	fmt.Println("   - STAR Method - Situation, Task, Action, Result framework")
	fmt.Println("   - Leadership Principles - Team collaboration, decision making")
	fmt.Println("\nTip: Use the MCQ Quiz to practice these topics!")
}

func (a *console) runQuiz() {
	language, ok := a.pickFrom("SELECT PROGRAMMING LANGUAGE", service.SupportedLanguages)
	if !ok {
		return
	}
	difficulty, ok := a.pickFrom("SELECT DIFFICULTY LEVEL", service.SupportedDifficulties)
	if !ok {
		return
	}

	fmt.Printf("\nGenerating %d %s questions for %s...\n", service.QuestionsPerQuiz, difficulty, language)
	fmt.Println("This may take a moment...")

	attempt, err := a.quiz.StartAttempt(context.Background(), language, difficulty)
	if err != nil {
		fmt.Printf("\nFailed to start quiz: %v\n", err)
		return
	}
	if attempt.Degraded {
		fmt.Println("\nNote: question generation is unavailable, using the built-in question bank.")
	}

	for i, q := range attempt.Questions {
		fmt.Printf("\nQuestion %d/%d\n", i+1, len(attempt.Questions))
		fmt.Println(strings.Repeat("-", 70))
		fmt.Printf("\n%s\n\n", q.Text)
		for _, letter := range q.SortedOptionLetters() {
			fmt.Printf("  %s. %s\n", letter, q.Options[letter])
		}

		// Повторяем запрос, пока не получим A-D
		for {
			answer := strings.ToUpper(a.ask("\nYour answer (A/B/C/D): "))
			if _, err := a.quiz.SubmitAnswer(attempt.ID, answer); err != nil {
				fmt.Println("Invalid input! Please enter A, B, C, or D.")
				continue
			}
			break
		}
	}

	result, err := a.quiz.FinishAttempt(attempt.ID)
	if err != nil {
		fmt.Printf("\nFailed to score quiz: %v\n", err)
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 70))
	fmt.Println("QUIZ COMPLETED!")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Language: %s\n", result.Language)
	fmt.Printf("Difficulty: %s\n", result.Difficulty)
	fmt.Printf("Time Taken: %dm %ds\n", result.TimeTakenSec/60, result.TimeTakenSec%60)
	fmt.Printf("Correct Answers: %d/%d\n", result.CorrectAnswers, result.TotalQuestions)
	fmt.Printf("SCORE: %.1f%% - %s\n", result.ScorePercentage, scoreMessage(result.ScorePercentage))

	if strings.ToLower(a.ask("\nWould you like to review your answers? (y/n): ")) == "y" {
		a.showReview(attempt.ID)
	}
	if err := a.quiz.CloseAttempt(attempt.ID); err != nil {
		log.Printf("Failed to close attempt: %v", err)
	}
}

func scoreMessage(score float64) string {
	switch {
	case score >= 80:
		return "Excellent!"
	case score >= 60:
		return "Good job!"
	case score >= 40:
		return "Keep practicing!"
	default:
		return "Don't give up!"
	}
}

func (a *console) showReview(attemptID string) {
	review, err := a.quiz.Review(attemptID)
	if err != nil {
		fmt.Printf("\nFailed to load review: %v\n", err)
		return
	}

	for i, item := range review {
		fmt.Printf("\nREVIEW - Question %d/%d\n", i+1, len(review))
		fmt.Println(strings.Repeat("=", 70))
		fmt.Printf("\n%s\n\n", item.Question)
		for _, letter := range []string{"A", "B", "C", "D"} {
			marker := "   "
			if letter == item.CorrectAnswer {
				marker = "[+]"
			} else if letter == item.UserAnswer && !item.IsCorrect {
				marker = "[x]"
			}
			fmt.Printf("%s %s. %s\n", marker, letter, item.Options[letter])
		}
		if item.IsCorrect {
			fmt.Println("\nYour answer is CORRECT!")
		} else {
			fmt.Printf("\nYour answer: %s\n", item.UserAnswer)
			fmt.Printf("Correct answer: %s\n", item.CorrectAnswer)
		}
		fmt.Printf("\nExplanation:\n   %s\n", item.Explanation)

		if i < len(review)-1 {
			a.ask("\nPress Enter for next question...")
		}
	}
}

func (a *console) showAnalytics() {
	overall, err := a.quiz.OverallStats()
	if err != nil {
		fmt.Printf("\nFailed to load analytics: %v\n", err)
		return
	}

	fmt.Println("\nPERFORMANCE ANALYTICS")
	fmt.Println(strings.Repeat("=", 70))

	if overall.TotalQuizzes == 0 {
		fmt.Println("\nNo quiz data available yet.")
		fmt.Println("Complete some quizzes to see your analytics!")
		return
	}

	fmt.Println("\nOVERALL PERFORMANCE")
	fmt.Println(strings.Repeat("-", 70))
	fmt.Printf("Total Quizzes Completed: %d\n", overall.TotalQuizzes)
	fmt.Printf("Average Score: %.1f%%\n", overall.AvgScore)
	fmt.Printf("Best Score: %.1f%%\n", overall.BestScore)
	fmt.Printf("Total Questions Attempted: %d\n", overall.TotalQuestions)
	fmt.Printf("Overall Accuracy: %.1f%%\n", overall.Accuracy)

	if byLang, err := a.quiz.StatsByLanguage(); err == nil && len(byLang) > 0 {
		fmt.Println("\nPERFORMANCE BY LANGUAGE")
		fmt.Println(strings.Repeat("-", 70))
		for _, g := range byLang {
			fmt.Printf("%s: attempts=%d, average score=%.1f%%\n", g.Group, g.TotalAttempts, g.AvgScore)
		}
	}
	if byDiff, err := a.quiz.StatsByDifficulty(); err == nil && len(byDiff) > 0 {
		fmt.Println("\nPERFORMANCE BY DIFFICULTY")
		fmt.Println(strings.Repeat("-", 70))
		for _, g := range byDiff {
			fmt.Printf("%s: attempts=%d, average score=%.1f%%\n", g.Group, g.TotalAttempts, g.AvgScore)
		}
	}
}

func (a *console) showHistory() {
	fmt.Println("\nQUIZ HISTORY (Last 10 Attempts)")
	fmt.Println(strings.Repeat("=", 70))

	history, err := a.quiz.History(10)
	if err != nil {
		fmt.Printf("\nFailed to load history: %v\n", err)
		return
	}
	if len(history) == 0 {
		fmt.Println("\nNo quiz history available yet.")
		return
	}

	fmt.Printf("\n%-4s %-12s %-10s %-8s %-20s\n", "#", "Language", "Difficulty", "Score", "Date & Time")
	fmt.Println(strings.Repeat("-", 70))
	for i, r := range history {
		fmt.Printf("%-4d %-12s %-10s %-8s %-20s\n",
			i+1, r.Language, r.Difficulty,
			fmt.Sprintf("%.1f%%", r.ScorePercentage),
			r.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func (a *console) runPractice() {
	topic := a.ask("\nEnter a topic to practice (e.g. Data Structures, SQL): ")
	difficulty, ok := a.pickFrom("SELECT DIFFICULTY LEVEL", service.SupportedDifficulties)
	if !ok {
		return
	}

	question, err := a.prep.NextQuestion(context.Background(), topic, difficulty)
	if err != nil {
		fmt.Printf("\nFailed to get a question: %v\n", err)
		return
	}

	fmt.Printf("\nQuestion:\n  %s\n", question)
	answer := a.ask("\nYour answer: ")
	if answer == "" {
		fmt.Println("\nEmpty answer, attempt discarded.")
		return
	}

	fmt.Println("\nAnalyzing your answer...")
	result, err := a.prep.SubmitAnswer(context.Background(), topic, question, answer)
	if err != nil {
		fmt.Printf("\nFailed to analyze answer: %v\n", err)
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 70))
	fmt.Printf("SCORE: %d/100\n", result.Review.Score)
	fmt.Printf("\nFeedback:\n  %s\n", result.Review.Feedback)
	fmt.Printf("\nSample answer:\n  %s\n", result.Review.SampleAnswer)
}

func (a *console) privacyMenu() {
	for {
		fmt.Println("\n" + strings.Repeat("-", 70))
		fmt.Println("PRIVACY & DATA MANAGEMENT")
		fmt.Println(strings.Repeat("-", 70))
		fmt.Println("1. Data Summary")
		fmt.Println("2. Manage Consents")
		fmt.Println("3. Export All Data")
		fmt.Println("4. Delete Data")
		fmt.Println("5. Anonymize Old Data")
		fmt.Println("6. View Access Log")
		fmt.Println("7. Back to Main Menu")

		switch a.ask("\nEnter your choice (1-7): ") {
		case "1":
			a.showDataSummary()
		case "2":
			a.manageConsents()
		case "3":
			a.exportData()
		case "4":
			a.deleteData()
		case "5":
			a.anonymizeData()
		case "6":
			a.showAccessLog()
		case "7":
			return
		default:
			fmt.Println("\nInvalid choice. Please try again.")
		}
	}
}

func (a *console) showDataSummary() {
	summary, err := a.privacy.DataSummary()
	if err != nil {
		fmt.Printf("\nFailed to load summary: %v\n", err)
		return
	}

	fmt.Println("\nSTORED DATA SUMMARY")
	fmt.Println(strings.Repeat("-", 70))
	fmt.Printf("Quiz results: %d\n", summary.QuizResultsCount)
	fmt.Printf("Practice attempts: %d\n", summary.PrepHistoryCount)
	fmt.Printf("Candidate profiles: %d\n", summary.CandidatesCount)
	fmt.Printf("Consent records: %d\n", summary.ConsentCount)
	fmt.Printf("Access log entries: %d\n", summary.AccessLogCount)
	fmt.Printf("Database size: %.2f MB\n", summary.DatabaseSizeMB)
}

func (a *console) manageConsents() {
	statuses, err := a.privacy.AllConsents()
	if err != nil {
		fmt.Printf("\nFailed to load consents: %v\n", err)
		return
	}

	types := []string{
		entity.ConsentDataCollection,
		entity.ConsentAnalytics,
		entity.ConsentAIProcessing,
	}

	fmt.Println("\nCURRENT CONSENTS")
	fmt.Println(strings.Repeat("-", 70))
	for i, t := range types {
		state := "not given"
		if st, ok := statuses[t]; ok && st.Given {
			state = "given"
		}
		fmt.Printf("%d. %-20s %s\n", i+1, t, state)
	}

	choice := a.ask(fmt.Sprintf("\nToggle which consent? (1-%d, Enter to skip): ", len(types)))
	if choice == "" {
		return
	}
	idx, err := strconv.Atoi(choice)
	if err != nil || idx < 1 || idx > len(types) {
		fmt.Println("\nInvalid selection!")
		return
	}

	consentType := types[idx-1]
	given := !statuses[consentType].Given
	if err := a.privacy.RecordConsent(consentType, given); err != nil {
		fmt.Printf("\nFailed to record consent: %v\n", err)
		return
	}
	fmt.Printf("\nConsent %q is now %s.\n", consentType, map[bool]string{true: "given", false: "withdrawn"}[given])
}

func (a *console) exportData() {
	format, ok := a.pickFrom("SELECT EXPORT FORMAT", []string{service.ExportFormatJSON, service.ExportFormatXLSX})
	if !ok {
		return
	}

	path, err := a.privacy.ExportAllData(format)
	if err != nil {
		fmt.Printf("\nExport failed: %v\n", err)
		return
	}
	fmt.Printf("\nAll user data exported to %s\n", path)
}

func (a *console) deleteData() {
	scope, ok := a.pickFrom("SELECT WHAT TO DELETE", []string{
		"All data", "Quiz data only", "Candidate data only",
	})
	if !ok {
		return
	}

	confirm := strings.ToLower(a.ask("\nThis cannot be undone. Type 'delete' to confirm: ")) == "delete"

	var deleted bool
	var err error
	switch scope {
	case "All data":
		deleted, err = a.privacy.DeleteAllData(confirm)
	case "Quiz data only":
		deleted, err = a.privacy.DeleteQuizData(confirm)
	case "Candidate data only":
		deleted, err = a.privacy.DeleteCandidateData(confirm)
	}
	if err != nil {
		fmt.Printf("\nDeletion failed: %v\n", err)
		return
	}
	if !deleted {
		fmt.Println("\nDeletion not confirmed, nothing was removed.")
		return
	}
	fmt.Println("\nData has been permanently deleted.")
}

func (a *console) anonymizeData() {
	daysStr := a.ask(fmt.Sprintf("\nAnonymize records older than how many days? [%d]: ", a.retention))
	days := a.retention
	if daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed < 0 {
			fmt.Println("\nInvalid number of days.")
			return
		}
		days = parsed
	}

	count, err := a.privacy.AnonymizeOldData(days)
	if err != nil {
		fmt.Printf("\nAnonymization failed: %v\n", err)
		return
	}
	fmt.Printf("\nAnonymized %d old records.\n", count)
}

func (a *console) showAccessLog() {
	entries, err := a.privacy.AccessLog(50)
	if err != nil {
		fmt.Printf("\nFailed to load access log: %v\n", err)
		return
	}
	if len(entries) == 0 {
		fmt.Println("\nAccess log is empty.")
		return
	}

	fmt.Println("\nDATA ACCESS LOG")
	fmt.Printf("%-10s %-12s %-8s %-30s %-20s\n", "Action", "Target", "Rows", "Purpose", "Date")
	fmt.Println(strings.Repeat("-", 70))
	for _, e := range entries {
		fmt.Printf("%-10s %-12s %-8d %-30s %-20s\n",
			e.AccessType, e.Target, e.RecordCount, e.Purpose,
			e.CreatedAt.Format("2006-01-02 15:04"))
	}
}
