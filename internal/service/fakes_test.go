package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"edu_exam_backend/internal/model"
	"edu_exam_backend/internal/repository"
	"edu_exam_backend/internal/util"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 内存实现的仓储，供服务层测试使用

type fakeClassStore struct {
	mu      sync.Mutex
	nextID  uint
	classes map[uint]model.Class
	members map[uint]map[uint]bool
}

func newFakeClassStore() *fakeClassStore {
	return &fakeClassStore{classes: map[uint]model.Class{}, members: map[uint]map[uint]bool{}}
}

func (f *fakeClassStore) Create(ctx context.Context, class *model.Class) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	class.ID = f.nextID
	f.classes[class.ID] = *class
	return nil
}

func (f *fakeClassStore) FindByID(ctx context.Context, id uint) (*model.Class, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.classes[id]
	if !ok {
		return nil, util.ErrClassNotFound
	}
	return &c, nil
}

func (f *fakeClassStore) AddMembers(ctx context.Context, classID uint, studentIDs []uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.members[classID] == nil {
		f.members[classID] = map[uint]bool{}
	}
	for _, id := range studentIDs {
		f.members[classID][id] = true
	}
	return nil
}

func (f *fakeClassStore) IsMember(ctx context.Context, classID, studentID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.members[classID][studentID], nil
}

func (f *fakeClassStore) ListByTeacher(ctx context.Context, teacherID uint) ([]model.Class, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Class
	for _, c := range f.classes {
		if c.TeacherID == teacherID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeClassStore) ListByStudent(ctx context.Context, studentID uint) ([]model.Class, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Class
	for id, m := range f.members {
		if m[studentID] {
			out = append(out, f.classes[id])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeExamStore struct {
	mu        sync.Mutex
	nextID    uint
	nextQID   uint
	nextOptID uint
	exams     map[uint]model.Exam
	questions map[uint][]model.ExamQuestion
	classes   *fakeClassStore
}

func newFakeExamStore(classes *fakeClassStore) *fakeExamStore {
	return &fakeExamStore{
		exams:     map[uint]model.Exam{},
		questions: map[uint][]model.ExamQuestion{},
		classes:   classes,
	}
}

func copyQuestions(qs []model.ExamQuestion) []model.ExamQuestion {
	out := make([]model.ExamQuestion, len(qs))
	for i, q := range qs {
		q.Options = append([]model.ExamQuestionOption(nil), q.Options...)
		out[i] = q
	}
	return out
}

func (f *fakeExamStore) Create(ctx context.Context, exam *model.Exam) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	exam.ID = f.nextID
	if exam.Status == "" {
		exam.Status = model.ExamStatusDraft
	}
	cp := *exam
	cp.Questions = nil
	f.exams[exam.ID] = cp
	return nil
}

func (f *fakeExamStore) Update(ctx context.Context, exam *model.Exam) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *exam
	cp.Questions = nil
	f.exams[exam.ID] = cp
	return nil
}

func (f *fakeExamStore) TransitionStatus(ctx context.Context, examID uint, from, to model.ExamStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.exams[examID]
	if !ok || e.Status != from {
		return false, nil
	}
	e.Status = to
	f.exams[examID] = e
	return true, nil
}

func (f *fakeExamStore) FindByID(ctx context.Context, id uint) (*model.Exam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.exams[id]
	if !ok {
		return nil, util.ErrExamNotFound
	}
	return &e, nil
}

func (f *fakeExamStore) FindWithQuestions(ctx context.Context, id uint) (*model.Exam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.exams[id]
	if !ok {
		return nil, util.ErrExamNotFound
	}
	e.Questions = copyQuestions(f.questions[id])
	return &e, nil
}

func (f *fakeExamStore) filter(keep func(e model.Exam) bool) []model.Exam {
	var out []model.Exam
	for _, e := range f.exams {
		if keep(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func paginate(exams []model.Exam, page, limit int) ([]model.Exam, int64) {
	total := int64(len(exams))
	start := (page - 1) * limit
	if start >= len(exams) {
		return []model.Exam{}, total
	}
	end := start + limit
	if end > len(exams) {
		end = len(exams)
	}
	return exams[start:end], total
}

func (f *fakeExamStore) ListByClass(ctx context.Context, classID uint, page, limit int, sort string) ([]model.Exam, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list, total := paginate(f.filter(func(e model.Exam) bool { return e.ClassID == classID }), page, limit)
	return list, total, nil
}

func (f *fakeExamStore) ListByCreator(ctx context.Context, creatorID uint, page, limit int, sort string) ([]model.Exam, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list, total := paginate(f.filter(func(e model.Exam) bool { return e.CreatedBy == creatorID }), page, limit)
	return list, total, nil
}

func (f *fakeExamStore) ListAvailableForStudent(ctx context.Context, studentID uint, now time.Time) ([]model.Exam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filter(func(e model.Exam) bool {
		member, _ := f.classes.IsMember(ctx, e.ClassID, studentID)
		return member && e.IsActive(now)
	}), nil
}

func (f *fakeExamStore) FindPublishedStartingBefore(ctx context.Context, t time.Time) ([]model.Exam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filter(func(e model.Exam) bool {
		return e.Status == model.ExamStatusPublished && !e.StartTime.After(t)
	}), nil
}

func (f *fakeExamStore) FindActiveEndedBefore(ctx context.Context, t time.Time) ([]model.Exam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filter(func(e model.Exam) bool {
		return e.Status == model.ExamStatusActive && e.EndTime.Before(t)
	}), nil
}

func (f *fakeExamStore) Delete(ctx context.Context, examID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.exams, examID)
	delete(f.questions, examID)
	return nil
}

func (f *fakeExamStore) DeleteQuestions(ctx context.Context, examID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.questions, examID)
	return nil
}

func (f *fakeExamStore) CountQuestions(ctx context.Context, examID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.questions[examID])), nil
}

func (f *fakeExamStore) MaxOrderIndex(ctx context.Context, examID uint) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	maxIdx := 0
	for _, q := range f.questions[examID] {
		if q.OrderIndex > maxIdx {
			maxIdx = q.OrderIndex
		}
	}
	return maxIdx, nil
}

func (f *fakeExamStore) CreateQuestions(ctx context.Context, questions []model.ExamQuestion) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range questions {
		f.nextQID++
		questions[i].ID = f.nextQID
		for j := range questions[i].Options {
			f.nextOptID++
			questions[i].Options[j].ID = f.nextOptID
			questions[i].Options[j].QuestionID = questions[i].ID
		}
		examID := questions[i].ExamID
		f.questions[examID] = append(f.questions[examID], copyQuestions(questions[i:i+1])...)
	}
	return nil
}

func (f *fakeExamStore) FindQuestion(ctx context.Context, examID, questionID uint) (*model.ExamQuestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, q := range f.questions[examID] {
		if q.ID == questionID {
			return &q, nil
		}
	}
	return nil, util.ErrQuestionNotFound
}

func (f *fakeExamStore) DeleteQuestion(ctx context.Context, questionID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for examID, qs := range f.questions {
		for i, q := range qs {
			if q.ID == questionID {
				f.questions[examID] = append(qs[:i:i], qs[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

func (f *fakeExamStore) RecomputeTotals(ctx context.Context, examID uint) (int, decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := decimal.Zero
	for _, q := range f.questions[examID] {
		total = total.Add(q.Points)
	}
	e := f.exams[examID]
	e.TotalQuestions = len(f.questions[examID])
	e.TotalPoints = total
	f.exams[examID] = e
	return e.TotalQuestions, total, nil
}

// setCorrectOption 模拟教师在开考后修改题目
func (f *fakeExamStore) setCorrectOption(examID, questionID uint, optionIndex int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, q := range f.questions[examID] {
		if q.ID != questionID {
			continue
		}
		for j := range q.Options {
			f.questions[examID][i].Options[j].IsCorrect = j == optionIndex
		}
	}
}

type fakeAttemptStore struct {
	mu         sync.Mutex
	nextID     uint
	attempts   map[uint]model.ExamAttempt
	answers    map[uint][]model.ExamAnswer
	users      map[uint]model.User
	submitErrs map[uint]error
}

func newFakeAttemptStore() *fakeAttemptStore {
	return &fakeAttemptStore{
		attempts:   map[uint]model.ExamAttempt{},
		answers:    map[uint][]model.ExamAnswer{},
		users:      map[uint]model.User{},
		submitErrs: map[uint]error{},
	}
}

func (f *fakeAttemptStore) Create(ctx context.Context, attempt *model.ExamAttempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.attempts {
		if a.ExamID == attempt.ExamID && a.StudentID == attempt.StudentID && a.AttemptNumber == attempt.AttemptNumber {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextID++
	attempt.ID = f.nextID
	f.attempts[attempt.ID] = *attempt
	return nil
}

func (f *fakeAttemptStore) FindByID(ctx context.Context, id uint) (*model.ExamAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.attempts[id]
	if !ok {
		return nil, util.ErrAttemptNotFound
	}
	return &a, nil
}

func (f *fakeAttemptStore) sorted(keep func(a model.ExamAttempt) bool) []model.ExamAttempt {
	var out []model.ExamAttempt
	for _, a := range f.attempts {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeAttemptStore) FindInProgress(ctx context.Context, examID, studentID uint) (*model.ExamAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := f.sorted(func(a model.ExamAttempt) bool {
		return a.ExamID == examID && a.StudentID == studentID && a.Status == model.AttemptInProgress
	})
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

func (f *fakeAttemptStore) CountByExamAndStudent(ctx context.Context, examID, studentID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.sorted(func(a model.ExamAttempt) bool {
		return a.ExamID == examID && a.StudentID == studentID
	}))), nil
}

func (f *fakeAttemptStore) CountByExam(ctx context.Context, examID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.sorted(func(a model.ExamAttempt) bool { return a.ExamID == examID }))), nil
}

func (f *fakeAttemptStore) ListByExamAndStudent(ctx context.Context, examID, studentID uint) ([]model.ExamAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(func(a model.ExamAttempt) bool {
		return a.ExamID == examID && a.StudentID == studentID
	}), nil
}

func (f *fakeAttemptStore) FindBestGraded(ctx context.Context, examID, studentID uint) (*model.ExamAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := f.sorted(func(a model.ExamAttempt) bool {
		return a.ExamID == examID && a.StudentID == studentID && a.Status == model.AttemptGraded
	})
	if len(list) == 0 {
		return nil, util.ErrNoGradedAttempt
	}
	best := list[0]
	for _, a := range list[1:] {
		if a.TotalScore.GreaterThan(best.TotalScore) {
			best = a
		}
	}
	return &best, nil
}

func (f *fakeAttemptStore) FindInProgressStartedAfter(ctx context.Context, since time.Time) ([]model.ExamAttempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(func(a model.ExamAttempt) bool {
		return a.Status == model.AttemptInProgress && a.StartedAt.After(since)
	}), nil
}

func (f *fakeAttemptStore) FindAnswers(ctx context.Context, attemptID uint) ([]model.ExamAnswer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.ExamAnswer(nil), f.answers[attemptID]...), nil
}

func (f *fakeAttemptStore) upsert(attemptID uint, answers []model.ExamAnswer) {
	existing := f.answers[attemptID]
	for _, a := range answers {
		replaced := false
		for i := range existing {
			if existing[i].QuestionID == a.QuestionID {
				a.ID = existing[i].ID
				existing[i] = a
				replaced = true
				break
			}
		}
		if !replaced {
			a.ID = uint(len(existing) + 1)
			existing = append(existing, a)
		}
	}
	f.answers[attemptID] = existing
}

func (f *fakeAttemptStore) SaveAnswers(ctx context.Context, attemptID uint, answers []model.ExamAnswer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.attempts[attemptID]
	if !ok {
		return util.ErrAttemptNotFound
	}
	if a.Status != model.AttemptInProgress {
		return util.ErrAttemptNotInProgress
	}
	f.upsert(attemptID, answers)
	return nil
}

func (f *fakeAttemptStore) SaveSubmission(ctx context.Context, s *repository.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.submitErrs[s.AttemptID]; err != nil {
		return err
	}
	a, ok := f.attempts[s.AttemptID]
	if !ok || a.Status != model.AttemptInProgress {
		return util.ErrAttemptNotInProgress
	}
	f.upsert(s.AttemptID, s.Answers)
	submittedAt := s.SubmittedAt
	a.Status = model.AttemptGraded
	a.AutoSubmitted = s.AutoSubmitted
	a.SubmittedAt = &submittedAt
	a.TimeSpentSeconds = s.TimeSpentSeconds
	a.TotalScore = s.TotalScore
	a.PercentageScore = s.PercentageScore
	a.IsPassed = s.IsPassed
	f.attempts[s.AttemptID] = a
	return nil
}

func (f *fakeAttemptStore) ListForExport(ctx context.Context, examID uint) ([]repository.AttemptExportRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rows []repository.AttemptExportRow
	for _, a := range f.sorted(func(a model.ExamAttempt) bool { return a.ExamID == examID }) {
		u := f.users[a.StudentID]
		rows = append(rows, repository.AttemptExportRow{ExamAttempt: a, StudentName: u.Name, StudentEmail: u.Email})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].StudentName != rows[j].StudentName {
			return rows[i].StudentName < rows[j].StudentName
		}
		return rows[i].AttemptNumber < rows[j].AttemptNumber
	})
	return rows, nil
}

type fakeUserStore struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uint]model.User{}}
}

func (f *fakeUserStore) Create(ctx context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextID++
	user.ID = f.nextID
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserStore) FindByID(ctx context.Context, id uint) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, util.ErrUserNotFound
	}
	return &u, nil
}

func (f *fakeUserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, util.ErrUserNotFound
}

func (f *fakeUserStore) FindByIDs(ctx context.Context, ids []uint) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeFileStore struct {
	mu     sync.Mutex
	nextID uint
	files  map[uint]model.NotebookFile
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{files: map[uint]model.NotebookFile{}}
}

func (f *fakeFileStore) Create(ctx context.Context, file *model.NotebookFile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	file.ID = f.nextID
	f.files[file.ID] = *file
	return nil
}

func (f *fakeFileStore) Update(ctx context.Context, file *model.NotebookFile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[file.ID] = *file
	return nil
}

func (f *fakeFileStore) FindByID(ctx context.Context, id uint) (*model.NotebookFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	file, ok := f.files[id]
	if !ok {
		return nil, util.ErrNotebookFileNotFound
	}
	return &file, nil
}

func (f *fakeFileStore) FindByIDsAndOwner(ctx context.Context, ids []uint, ownerID uint) ([]model.NotebookFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.NotebookFile
	for _, id := range ids {
		if file, ok := f.files[id]; ok && file.OwnerID == ownerID {
			out = append(out, file)
		}
	}
	return out, nil
}

func (f *fakeFileStore) ListByOwner(ctx context.Context, ownerID, notebookID uint) ([]model.NotebookFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.NotebookFile
	for _, file := range f.files {
		if file.OwnerID == ownerID && (notebookID == 0 || file.NotebookID == notebookID) {
			out = append(out, file)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeFileStore) Delete(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.files, id)
	return nil
}

type fakeTaskStore struct {
	mu    sync.Mutex
	tasks map[string]model.GenerationTask
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: map[string]model.GenerationTask{}}
}

func (f *fakeTaskStore) Create(ctx context.Context, task *model.GenerationTask) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if task.ID == "" {
		task.ID = model.GenerateUUID()
	}
	f.tasks[task.ID] = *task
	return nil
}

func (f *fakeTaskStore) Update(ctx context.Context, task *model.GenerationTask) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[task.ID] = *task
	return nil
}

func (f *fakeTaskStore) FindByID(ctx context.Context, id string) (*model.GenerationTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.tasks[id]
	if !ok {
		return nil, util.ErrTaskNotFound
	}
	return &task, nil
}

func (f *fakeTaskStore) FailUnfinished(ctx context.Context, reason string, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, task := range f.tasks {
		if !task.Status.IsFinished() {
			task.Status = model.GenerationFailed
			task.ErrorMessage = reason
			task.FinishedAt = &now
			f.tasks[id] = task
			n++
		}
	}
	return n, nil
}

type fakeLLM struct {
	mu      sync.Mutex
	reply   string
	err     error
	panics  bool
	block   chan struct{}
	entered chan struct{}
	prompts []string
}

func (f *fakeLLM) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if f.entered != nil {
		select {
		case f.entered <- struct{}{}:
		default:
		}
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, userPrompt)
	if f.panics {
		panic("llm exploded")
	}
	return f.reply, f.err
}

func (f *fakeLLM) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

func (f *fakeLLM) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
