package prompt

// summaryPrompt is the template for document summarization.
// Placeholders: max words, document content, max words.
const summaryPrompt = `Please provide a concise summary of the following document in no more than %d words.
Focus on the main points, key findings, and overall purpose of the document.

Document:
%s

Summary (max %d words):`

// answerPrompt is the template for document question answering.
// The output format lines are the label contract consumed by the reply package.
const answerPrompt = `Based on the following document, please answer the question with:
1. A clear, comprehensive answer
2. Justification explaining your reasoning
3. Specific reference to the part of the document that supports your answer

Document:
%s

Question: %s

Please format your response as:
ANSWER: [Your answer here]
JUSTIFICATION: [Your reasoning here]
SOURCE_REFERENCE: [Specific reference to document section/paragraph]`

// challengePrompt is the template for challenge question generation.
const challengePrompt = `Based on the following document, generate exactly 3 challenging questions that require:
- Deep comprehension
- Logical reasoning
- Critical thinking

For each question, provide:
1. The question itself
2. The correct answer
3. A detailed explanation with document reference

Document:
%s

Please format your response as:
QUESTION_1: [Question here]
ANSWER_1: [Correct answer here]
EXPLANATION_1: [Detailed explanation with reference]

QUESTION_2: [Question here]
ANSWER_2: [Correct answer here]
EXPLANATION_2: [Detailed explanation with reference]

QUESTION_3: [Question here]
ANSWER_3: [Correct answer here]
EXPLANATION_3: [Detailed explanation with reference]`

// evaluationPrompt is the template for grading a user's answer.
const evaluationPrompt = `Based on the following document and challenge question, evaluate the user's answer:

Document:
%s

Question: %s
Correct Answer: %s
User's Answer: %s

Please evaluate the user's answer and provide:
1. Whether it's correct or not
2. Detailed feedback
3. The correct answer
4. Justification with document reference
5. A score from 0-100

Format your response as:
IS_CORRECT: [True/False]
FEEDBACK: [Detailed feedback on user's answer]
CORRECT_ANSWER: [The correct answer]
JUSTIFICATION: [Explanation with document reference]
SCORE: [0-100]`
