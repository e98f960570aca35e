package services

import "strings"

// baseMasterPrompt is the fixed opening of the adaptive master prompt.
// Learner-specific lines are appended from the stored profile.
const baseMasterPrompt = "You are an adaptive AI teacher. Tailor your responses to the student's current level."

const syllabusPromptTemplate = `Based on the provided syllabus and description, generate a structured set of 8 lessons/sub divisions that need to be covered to understand and master the topic.
Combine the user's tentative syllabus and give just 8 subdivisions of the syllabus.
Syllabus: {topic}
Format the response as follows for each lesson:
1. Lesson name
2. Next lesson name
...and so on for all 8 lessons.`

const lessonPromptTemplate = `Based on the provided lesson generate a detail explanation in 2 to 3 paragraphs that need to be covered to understand and master the topic.
and then in order to test the user knowledge generate 4 questions for the same lesson with options and correct answer
Syllabus: {lesson_name}
Format the response as follows for each lesson:
dont write lesson name in heading start from explanation
Explanation:
Questions:
1. Question 1
A) Option A
B) Option B
C) Option C
D) Option D
Correct Answer: [A/B/C/D]
2. Question 2 (similar format)
3. Question 3 (similar format)
4. Question 4 (similar format)
give four questions for each lesson in the above format
start writing the questions from next line after the explanation
and also dont write readme provide only one paragraph for explanation
then next line questions will start`

const videoQuestionPromptTemplate = `Based on this video transcript segment:
{segment}

Generate a relevant question to test the student's understanding.
Provide the question, the correct answer, and a brief explanation.

Format your response as JSON:
{
    "question": "[generated question]",
    "correct_answer": "[correct answer]",
    "explanation": "[brief explanation]"
}`

const assessLevelPromptTemplate = `Based on the student's response to the topic '{topic}', assess their understanding level.
Student's response: {response}

Categorize the student's level as one of the following:
beginner, intermediate, advanced, or expert.

Provide your assessment in the following JSON format:
{
    "level": "[assessed level]",
    "reasoning": "[brief explanation for this assessment]"
}`

const evaluateAnswerPromptTemplate = `Evaluate the student's answer to the question about '{topic}'.
Question: {question}
Student's answer: {answer}
Correct answer: {correct_answer}

Provide constructive feedback and suggest next steps.
If the student's answer is incorrect or shows lack of understanding,
suggest reviewing specific parts of the topic.

Format your response as JSON:
{
    "evaluation": "[correct/partially correct/incorrect]",
    "feedback": "[constructive feedback]",
    "next_step": "[review/advance/practice]",
    "specific_review": "[specific concept to review, if needed]"
}`

func buildSyllabusPrompt(topic string) string {
	return strings.ReplaceAll(syllabusPromptTemplate, "{topic}", topic)
}

func buildLessonPrompt(lessonName string) string {
	return strings.ReplaceAll(lessonPromptTemplate, "{lesson_name}", lessonName)
}

func buildVideoQuestionPrompt(segment string) string {
	return strings.ReplaceAll(videoQuestionPromptTemplate, "{segment}", segment)
}

func buildAssessLevelPrompt(topic, response string) string {
	p := strings.ReplaceAll(assessLevelPromptTemplate, "{topic}", topic)
	return strings.ReplaceAll(p, "{response}", response)
}

func buildEvaluateAnswerPrompt(topic, question, answer, correctAnswer string) string {
	p := strings.ReplaceAll(evaluateAnswerPromptTemplate, "{topic}", topic)
	p = strings.ReplaceAll(p, "{question}", question)
	p = strings.ReplaceAll(p, "{answer}", answer)
	return strings.ReplaceAll(p, "{correct_answer}", correctAnswer)
}
